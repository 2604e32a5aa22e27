package mailer

import "text/template"

type tokenMailData struct {
	Tokens []string
}

var tokenMailTemplate = template.Must(template.New("tokens").Parse(`Thank you for your order.

{{if eq (len .Tokens) 1}}Your showroom access code:{{else}}Your showroom access codes:{{end}}

{{range .Tokens}}    {{.}}
{{end}}
Each code admits one visit. This mail always lists every code your order
is entitled to, including codes sent earlier.
`))
