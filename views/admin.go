package views

import (
	"bytes"
	"fmt"
	"html"

	"github.com/a-h/templ"

	"folio/store"
)

func adminLayout(buf *bytes.Buffer, site Site, title string, body func(*bytes.Buffer)) {
	buf.WriteString("<!DOCTYPE html><html lang=\"en\"><head><meta charset=\"utf-8\">")
	fmt.Fprintf(buf, "<title>%s — %s admin</title>", html.EscapeString(title), html.EscapeString(site.Name))
	buf.WriteString(`<link rel="stylesheet" href="/public/admin.css">`)
	buf.WriteString("</head><body>")
	fmt.Fprintf(buf, `<header class="admin-header"><a href="/admin/">%s admin</a>`, html.EscapeString(site.Name))
	buf.WriteString(`<form method="post" action="/admin/logout/"><button type="submit">Log out</button></form></header><main>`)
	body(buf)
	buf.WriteString("</main></body></html>")
}

// AdminLogin renders the login form, with an error banner on a failed
// attempt. The banner never says which field was wrong.
func AdminLogin(site Site, showError bool, csrfToken string) templ.Component {
	return component(func(buf *bytes.Buffer) {
		buf.WriteString("<!DOCTYPE html><html><head><meta charset=\"utf-8\"><title>Login</title>")
		buf.WriteString(`<link rel="stylesheet" href="/public/admin.css">`)
		buf.WriteString("</head><body><main>")
		if showError {
			buf.WriteString(`<div class="banner error" role="alert">Invalid credentials.</div>`)
		}
		buf.WriteString(`<form method="post" action="/admin/login/" class="login-form">`)
		fmt.Fprintf(buf, `<input type="hidden" name="_csrf" value="%s">`, html.EscapeString(csrfToken))
		buf.WriteString(`<label>Username <input type="text" name="username" autocomplete="username"></label>`)
		buf.WriteString(`<label>Password <input type="password" name="password" autocomplete="current-password"></label>`)
		buf.WriteString(`<button type="submit">Log in</button></form></main></body></html>`)
	})
}

// AdminDashboard lists every post with edit and delete controls. flash and
// errMsg are one-shot messages from the previous action.
func AdminDashboard(site Site, posts []store.Post, flash, errMsg, csrfToken string) templ.Component {
	return component(func(buf *bytes.Buffer) {
		adminLayout(buf, site, "Posts", func(buf *bytes.Buffer) {
			if flash != "" {
				fmt.Fprintf(buf, `<div class="banner ok">%s</div>`, html.EscapeString(flash))
			}
			if errMsg != "" {
				fmt.Fprintf(buf, `<div class="banner error" role="alert">%s <button class="dismiss">&times;</button></div>`,
					html.EscapeString(errMsg))
			}
			buf.WriteString(`<p><a class="button" href="/admin/new/">New post</a></p>`)
			buf.WriteString(`<table class="post-list"><thead><tr><th>Title</th><th>Locale</th><th>Updated</th><th></th></tr></thead><tbody>`)
			for _, p := range posts {
				buf.WriteString("<tr>")
				fmt.Fprintf(buf, `<td><a href="/admin/post/%d/">%s</a></td>`, p.ID, html.EscapeString(p.Title))
				fmt.Fprintf(buf, "<td>%s</td>", html.EscapeString(p.Locale))
				fmt.Fprintf(buf, "<td>%s</td>", p.UpdatedAt.Format("2006-01-02 15:04"))
				fmt.Fprintf(buf, `<td><form method="post" action="/admin/delete/%d/"><input type="hidden" name="_csrf" value="%s"><button type="submit">Delete</button></form></td>`,
					p.ID, html.EscapeString(csrfToken))
				buf.WriteString("</tr>")
			}
			buf.WriteString("</tbody></table>")
		})
	})
}

// AdminForm renders the create/edit form. A zero-ID post means create.
func AdminForm(site Site, p store.Post, csrfToken string) templ.Component {
	return component(func(buf *bytes.Buffer) {
		title := "New post"
		action := "/admin/save/"
		if p.ID != 0 {
			title = "Edit post"
			action = fmt.Sprintf("/admin/save/?id=%d", p.ID)
		}
		adminLayout(buf, site, title, func(buf *bytes.Buffer) {
			fmt.Fprintf(buf, "<h1>%s</h1>", title)
			fmt.Fprintf(buf, `<form method="post" action="%s" class="post-form">`, action)
			fmt.Fprintf(buf, `<input type="hidden" name="_csrf" value="%s">`, html.EscapeString(csrfToken))
			fmt.Fprintf(buf, `<label>Title <input type="text" name="title" value="%s"></label>`, html.EscapeString(p.Title))
			fmt.Fprintf(buf, `<label>Slug <input type="text" name="slug" value="%s" placeholder="derived from title"></label>`, html.EscapeString(p.Slug))
			fmt.Fprintf(buf, `<label>Locale <input type="text" name="locale" value="%s"></label>`, html.EscapeString(p.Locale))
			fmt.Fprintf(buf, `<label>Tags <input type="text" name="tags" value="%s"></label>`, html.EscapeString(JoinTags(p.Tags)))
			fmt.Fprintf(buf, `<label>Description <input type="text" name="og_description" value="%s"></label>`, html.EscapeString(p.OGDescription))
			fmt.Fprintf(buf, `<label>Image <input type="text" name="image" value="%s"></label>`, html.EscapeString(p.Image))
			fmt.Fprintf(buf, `<label>Content <textarea name="content" rows="20">%s</textarea></label>`, html.EscapeString(p.Content))
			buf.WriteString(`<button type="submit">Save</button></form>`)
		})
	})
}
