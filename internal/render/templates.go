package render

import "html/template"

var expiredTmpl = template.Must(template.New("expired").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Link expired</title>
<style>body{font-family:sans-serif;display:flex;height:100vh;align-items:center;justify-content:center;margin:0;color:#333}</style>
</head>
<body>
<div>
<h1>410</h1>
<p>This link has expired and is no longer available.</p>
</div>
</body>
</html>
`))

var passwordTmpl = template.Must(template.New("password").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Protected link</title>
<style>body{font-family:sans-serif;display:flex;height:100vh;align-items:center;justify-content:center;margin:0;color:#333}form{text-align:center}input{padding:8px;margin:8px 0}.error{color:#c0392b}</style>
</head>
<body>
<form method="POST" action="/{{.Slug}}">
<h1>This link is protected</h1>
{{if .WrongPassword}}<p class="error">Incorrect password, try again.</p>{{end}}
<input type="password" name="password" placeholder="Password" autofocus>
<br>
<button type="submit">Continue</button>
</form>
</body>
</html>
`))

// socialTmpl never includes the destination URL: crawlers only get
// the configured preview metadata.
var socialTmpl = template.Must(template.New("social").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<meta property="og:title" content="{{.Title}}">
{{if .Description}}<meta property="og:description" content="{{.Description}}">
{{end}}{{if .Image}}<meta property="og:image" content="{{.Image}}">
{{end}}<meta name="twitter:card" content="summary_large_image">
<meta name="twitter:title" content="{{.Title}}">
{{if .Description}}<meta name="twitter:description" content="{{.Description}}">
{{end}}{{if .Image}}<meta name="twitter:image" content="{{.Image}}">
{{end}}</head>
<body></body>
</html>
`))

var cloakTmpl = template.Must(template.New("cloak").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>&#8203;</title>
<style>html,body{margin:0;padding:0;height:100%;overflow:hidden}iframe{border:0;width:100%;height:100%}</style>
</head>
<body>
<iframe src="{{.TargetURL}}" allowfullscreen></iframe>
</body>
</html>
`))

// interstitialTmpl fires whichever vendor pixels are configured, then
// navigates after interstitialDelayMS.
var interstitialTmpl = template.Must(template.New("interstitial").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Redirecting&hellip;</title>
{{if .GA4}}<script async src="https://www.googletagmanager.com/gtag/js?id={{.GA4}}"></script>
<script>window.dataLayer=window.dataLayer||[];function gtag(){dataLayer.push(arguments);}gtag('js',new Date());gtag('config',{{.GA4}});</script>
{{end}}{{if .FBPixel}}<script>!function(f,b,e,v,n,t,s){if(f.fbq)return;n=f.fbq=function(){n.callMethod?n.callMethod.apply(n,arguments):n.queue.push(arguments)};if(!f._fbq)f._fbq=n;n.push=n;n.loaded=!0;n.version='2.0';n.queue=[];t=b.createElement(e);t.async=!0;t.src=v;s=b.getElementsByTagName(e)[0];s.parentNode.insertBefore(t,s)}(window,document,'script','https://connect.facebook.net/en_US/fbevents.js');fbq('init',{{.FBPixel}});fbq('track','PageView');</script>
{{end}}{{if .AdRoll}}<script>adroll_adv_id={{.AdRoll}};adroll_pix_id={{.AdRoll}};(function(w,d,e,o,a){w.__adroll_loaded=!0;w.adroll=w.adroll||[];e=d.createElement('script');o=d.getElementsByTagName('script')[0];e.async=1;e.src='https://s.adroll.com/j/roundtrip.js';o.parentNode.insertBefore(e,o)})(window,document);</script>
{{end}}</head>
<body>
<p>Redirecting&hellip;</p>
<script>setTimeout(function(){window.location.replace({{.TargetURL}});},{{.DelayMS}});</script>
</body>
</html>
`))
