// Package view renders videos as HTML cards.
package view

import (
	"html/template"
	"io"

	"github.com/and161185/streamish/internal/model"
)

const cardTmpl = `{{define "card"}}<div class="card">
  <p class="text-left px-2">Posted by: {{.PostedBy}}</p>
  <div class="card-body">
    <iframe class="video" src="{{.URL}}" title="YouTube video player" frameborder="0" allow="accelerometer; autoplay; clipboard-write; encrypted-media; gyroscope; picture-in-picture" allowfullscreen></iframe>
    <p><a href="/videos/{{.ID}}"><strong>{{.Title}}</strong></a></p>
    <p>{{.Description}}</p>
    <ul>{{range .Comments}}
      <li>{{.}}</li>{{end}}
    </ul>
  </div>
</div>
{{end}}`

const pageTmpl = `{{define "page"}}<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
{{if .Search}}<form method="get" action="/">
  <input id="search" name="q" value="{{.Query.Term}}">
  <label><input id="sort" type="checkbox" name="sortDesc" value="true"{{if .Query.SortDescending}} checked{{end}}> Newest first</label>
  <button type="submit">Search</button>
</form>
{{end}}{{range .Cards}}{{template "card" .}}{{end}}</body>
</html>
{{end}}`

var tmpl = template.Must(template.Must(template.New("view").Parse(cardTmpl)).Parse(pageTmpl))

// card is the display projection of one video.
type card struct {
	ID          int64
	Title       string
	Description string
	URL         string
	PostedBy    string
	Comments    []string
}

func toCard(v model.Video) card {
	c := card{
		ID:          v.ID,
		Title:       v.Title,
		Description: v.Description,
		URL:         v.URL,
		PostedBy:    "unknown",
		Comments:    make([]string, 0, len(v.Comments)),
	}
	if v.UserProfile != nil {
		c.PostedBy = v.UserProfile.Name
	}
	for _, cm := range v.Comments {
		c.Comments = append(c.Comments, cm.Message)
	}
	return c
}

// RenderCard writes the card for v. Comments render in the order given.
func RenderCard(w io.Writer, v model.Video) error {
	return tmpl.ExecuteTemplate(w, "card", toCard(v))
}

// RenderCards writes one card per video.
func RenderCards(w io.Writer, vs []model.Video) error {
	for _, v := range vs {
		if err := RenderCard(w, v); err != nil {
			return err
		}
	}
	return nil
}

// Page describes a full HTML document of cards, with an optional search form.
type Page struct {
	Title  string
	Search bool
	Query  model.SearchQuery
	Videos []model.Video
}

// RenderPage writes p as a complete HTML document.
func RenderPage(w io.Writer, p Page) error {
	cards := make([]card, 0, len(p.Videos))
	for _, v := range p.Videos {
		cards = append(cards, toCard(v))
	}
	return tmpl.ExecuteTemplate(w, "page", struct {
		Title  string
		Search bool
		Query  model.SearchQuery
		Cards  []card
	}{p.Title, p.Search, p.Query, cards})
}
