package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Google embeds the full form structure in a script tag as a nested JSON
// array assigned to FB_PUBLIC_LOAD_DATA_. The layout is undocumented but
// stable: blob[1][1] holds the item list, blob[1][0] the description and
// blob[3] the form title.
const loadDataMarker = "FB_PUBLIC_LOAD_DATA_"

var ErrNoFormData = errors.New("page contains no form data blob")

// Parse extracts the form schema from a fetched viewform page.
func Parse(pageURL string, html []byte) (*Form, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(html)))
	if err != nil {
		return nil, fmt.Errorf("parse form page: %w", err)
	}

	var blobText string
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := s.Text()
		if idx := strings.Index(text, loadDataMarker); idx >= 0 {
			blobText = text[idx:]
			return false
		}
		return true
	})
	if blobText == "" {
		return nil, ErrNoFormData
	}

	eq := strings.Index(blobText, "=")
	end := strings.LastIndex(blobText, ";")
	if eq < 0 || end <= eq {
		return nil, ErrNoFormData
	}

	var blob []any
	if err := json.Unmarshal([]byte(strings.TrimSpace(blobText[eq+1:end])), &blob); err != nil {
		return nil, fmt.Errorf("decode form data blob: %w", err)
	}

	form := &Form{
		ResponseURL: responseURL(pageURL),
		Hidden:      map[string]string{},
		PageHistory: "0",
	}
	form.Title = str(at(blob, 3))

	doc.Find("input[type=hidden]").Each(func(_ int, s *goquery.Selection) {
		name, _ := s.Attr("name")
		val, _ := s.Attr("value")
		switch name {
		case "fbzx":
			form.Hidden[name] = val
		case "pageHistory":
			form.PageHistory = val
		}
	})

	items := list(at(list(at(blob, 1)), 1))
	for _, raw := range items {
		item := list(raw)
		if len(item) < 5 {
			continue
		}
		q := Question{
			ID:    numStr(at(item, 0)),
			Title: str(at(item, 1)),
			Type:  typeOf(at(item, 3)),
		}
		// Section headers, images and videos have no answer fields.
		field := list(at(list(at(item, 4)), 0))
		if len(field) == 0 {
			continue
		}
		q.EntryID = numStr(at(field, 0))
		for _, rawOpt := range list(at(field, 1)) {
			opt := list(rawOpt)
			if v := str(at(opt, 0)); v != "" {
				q.Options = append(q.Options, Option{Value: v})
			}
		}
		if req, ok := at(field, 2).(float64); ok && req == 1 {
			q.Required = true
		}
		if q.EntryID == "" {
			continue
		}
		form.Questions = append(form.Questions, q)
	}

	if len(form.Questions) == 0 {
		return nil, fmt.Errorf("%w: no answerable questions found", ErrNoFormData)
	}
	return form, nil
}

func responseURL(pageURL string) string {
	if i := strings.Index(pageURL, "/viewform"); i >= 0 {
		return pageURL[:i] + "/formResponse"
	}
	return strings.TrimRight(pageURL, "/") + "/formResponse"
}

func typeOf(v any) QuestionType {
	code, ok := v.(float64)
	if !ok {
		return Unknown
	}
	switch int(code) {
	case 0:
		return ShortAnswer
	case 1:
		return Paragraph
	case 2:
		return MultipleChoice
	case 3:
		return Dropdown
	case 4:
		return Checkboxes
	case 5:
		return LinearScale
	case 7:
		return Grid
	case 9:
		return Date
	case 10:
		return Time
	}
	return Unknown
}

func at(l []any, i int) any {
	if i < 0 || i >= len(l) {
		return nil
	}
	return l[i]
}

func list(v any) []any {
	l, _ := v.([]any)
	return l
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

func numStr(v any) string {
	switch n := v.(type) {
	case float64:
		return strconv.FormatInt(int64(n), 10)
	case string:
		return n
	}
	return ""
}
