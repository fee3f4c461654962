// Package render turns a validated takedown request into the notice email.
// Rendering is pure: no I/O, no clock, no randomness, so the preview shown
// to the operator is byte-identical to what the dispatcher sends.
package render

import (
	"strings"
	"text/template"

	"dmcacli/internal/request"
)

type Email struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type noticeData struct {
	request.Takedown
	URLList string
}

// Render substitutes every request field into the notice layout. Field
// content is inserted exactly once and never re-parsed, so delimiter-like
// substrings inside fields stay inert.
func Render(t request.Takedown) Email {
	var b strings.Builder
	// Value-only template over an in-memory writer; Execute cannot fail here.
	_ = notice.Execute(&b, noticeData{Takedown: t, URLList: urlList(t.InfringingURLs)})
	return Email{
		Subject: "DMCA Takedown Notice from " + t.From,
		Body:    b.String(),
	}
}

func urlList(urls []string) string {
	lines := make([]string, 0, len(urls))
	for _, u := range urls {
		lines = append(lines, "- "+u)
	}
	return strings.Join(lines, "\n")
}

var notice = template.Must(template.New("notice").Parse(noticeBody))

// noticeBody follows GitHub's published DMCA takedown submission form.
const noticeBody = `Dear GitHub Team,

I, {{.LegalName}}, am the copyright owner of content that is currently being infringed on your website. Below is the DMCA takedown notice submission form.

* From
{{.From}}

* Are you the copyright holder or authorized to act on the copyright owner's behalf?
{{.CopyrightHolderOrAuthorized}}

* Are you submitting a revised DMCA notice after GitHub Trust & Safety requested you make changes to your original notice?
{{.IsRevised}}

* Does your claim involve content on GitHub or npm.js?
{{.ContentSource}}

* Please describe the nature of your copyright ownership or authorization to act on the owner's behalf.
{{.Ownership}}

* Please provide a detailed description of the original copyrighted work that has allegedly been infringed. If possible, include a URL to where it is posted online.
{{.WorkDescription}}

* What files should be taken down? Please provide URLs for each file, or if the entire repository, the repository's URL.
{{.URLList}}

* Do you claim to have any technological measures in place to control access to your copyrighted content? Please see our Complaints about Anti-Circumvention Technology if you are unsure.
{{.AccessControl}}

* Have you searched for any forks of the allegedly infringing files or repositories? Each fork is a distinct repository and must be identified separately if you believe it is infringing and wish to have it taken down.
{{.ForksInformation}}

* Is the work licensed under an open source license?
{{.OpenSource}}

* What would be the best solution for the alleged infringement?
{{.Solution}}

* Do you have the alleged infringer's contact information? If so, please provide it.
{{.Contact}}

* I have a good faith belief that use of the copyrighted materials described above on the infringing web pages is not authorized by the copyright owner, or its agent, or the law.
* I swear, under penalty of perjury, that the information in this notification is accurate and that I am the copyright owner, or am authorized to act on behalf of the owner, of an exclusive right that is allegedly infringed.
* I have taken fair use into consideration.
* I have read and understand GitHub's Guide to Submitting a DMCA Takedown Notice.

* So that we can get back to you, please provide either your telephone number or physical address.
{{.Phone}}
{{.ContactEmail}}

* Please type your full legal name below to sign this request.
{{.LegalName}}

Thank you for your attention to this matter.

Sincerely,
{{.LegalName}}
`
