package views

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/ch1kulya/mstories/assets/templates"
)

func page(name string, props any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return templates.RenderPage(w, name, props)
	})
}

func Home(props HomeProps) templ.Component         { return page("home", props) }
func Search(props SearchProps) templ.Component     { return page("search", props) }
func Story(props StoryProps) templ.Component       { return page("story", props) }
func Reader(props ReaderProps) templ.Component     { return page("reader", props) }
func Rankings(props RankingsProps) templ.Component { return page("rankings", props) }
func Author(props AuthorProps) templ.Component     { return page("author", props) }
func Error(props ErrorProps) templ.Component       { return page("error", props) }
