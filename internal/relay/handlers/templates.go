package handlers

import "html/template"

var loginPage = template.Must(template.New("login").Parse(`
<h1>Instagram OAuth</h1>
<a href="{{.AuthURL}}">
  Login with Instagram
</a>
`))

var tokenPage = template.Must(template.New("token").Parse(`
<h1>Access Token</h1>
<p>{{.AccessToken}}</p>
<h1>User ID</h1>
<p>{{.UserID}}</p>
`))

var profilePage = template.Must(template.New("profile").Parse(`
{{- if .Debug}}
<pre>{{.Debug}}</pre>
{{- end}}
<img src="{{.Profile.ProfilePictureURL}}" alt="Profile Picture" />
<br />
<b>User Name: {{.Profile.Username}}</b>
<br />
<b>Posts: {{.Profile.MediaCount}}</b>
<br />
<b>Followers: {{.Profile.FollowersCount}}</b>
<br />
<b>Following: {{.Profile.FollowingCount}}</b>
<br />
`))
