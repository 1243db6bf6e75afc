package service

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"leadtracker/internal/log"
	"leadtracker/internal/model"
	"leadtracker/internal/util/formfield"
)

const defaultMethod = "get"

// ExtractForms parses markup with the permissive HTML5 tree builder and
// describes every form that has at least one capturable field. Relative
// actions are resolved against baseURL, which is never fetched.
func ExtractForms(markup, baseURL string) ([]model.DetectedForm, error) {
	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		log.Logger.Error("failed to parse HTML",
			zap.String("url", baseURL),
			zap.Error(err),
		)
		return nil, &DetectionError{Op: OpParse, URL: baseURL, Err: err}
	}

	doc := goquery.NewDocumentFromNode(root)
	labels := doc.Find("label")
	forms := make([]model.DetectedForm, 0)

	doc.Find("form").Each(func(_ int, form *goquery.Selection) {
		action := form.AttrOr("action", "")
		method := strings.ToLower(strings.TrimSpace(form.AttrOr("method", "")))
		if method == "" {
			method = defaultMethod
		}

		fields := extractFields(form, labels)
		if len(fields) == 0 {
			return
		}

		forms = append(forms, model.DetectedForm{
			URL:    resolveURL(baseURL, action),
			Action: action,
			Method: method,
			Fields: fields,
		})
	})

	return forms, nil
}

// extract the capturable controls of a form in document order
func extractFields(form, labels *goquery.Selection) []model.FormField {
	var fields []model.FormField

	form.Find(formfield.Tags).Each(func(_ int, control *goquery.Selection) {
		name := control.AttrOr("name", "")
		typeAttr := control.AttrOr("type", "")
		if !formfield.Capturable(name, typeAttr) {
			return
		}

		_, required := control.Attr("required")
		fields = append(fields, model.FormField{
			Name:        name,
			Type:        formfield.Type(typeAttr, goquery.NodeName(control)),
			Label:       findLabel(control, labels, name),
			Placeholder: control.AttrOr("placeholder", ""),
			Required:    required,
		})
	})

	return fields
}

// findLabel tries, in order: labels pointing at the control's id, the
// enclosing label, and any label whose text contains the field name.
// The last rule matches loosely and can pick the wrong caption when several
// fields share a name fragment.
func findLabel(control, labels *goquery.Selection, name string) string {
	if id := control.AttrOr("id", ""); id != "" {
		byFor := labels.FilterFunction(func(_ int, l *goquery.Selection) bool {
			v, ok := l.Attr("for")
			return ok && v == id
		})
		if text := strings.TrimSpace(byFor.Text()); text != "" {
			return text
		}
	}

	if text := strings.TrimSpace(control.Closest("label").Text()); text != "" {
		return text
	}

	byName := labels.FilterFunction(func(_ int, l *goquery.Selection) bool {
		return strings.Contains(l.Text(), name)
	})
	return strings.TrimSpace(byName.First().Text())
}

// resolveURL resolves action against baseURL. An empty or unresolvable
// action yields baseURL unchanged.
func resolveURL(baseURL, action string) string {
	if action == "" {
		return baseURL
	}

	base, err := url.Parse(baseURL)
	if err != nil || !base.IsAbs() {
		return baseURL
	}

	ref, err := url.Parse(strings.TrimSpace(action))
	if err != nil {
		return baseURL
	}

	return base.ResolveReference(ref).String()
}
