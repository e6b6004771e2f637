package report

import (
	"fmt"
	"io"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, Data: a.String(), DataAtom: a, Attr: attrs}
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// withText appends a text child to n and returns n
func withText(n *html.Node, s string) *html.Node {
	n.AppendChild(text(s))
	return n
}

// WriteHTML renders the report as a standalone HTML page
func WriteHTML(r *Report, w io.Writer) error {
	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	root := element(atom.Html)
	doc.AppendChild(root)

	head := element(atom.Head)
	head.AppendChild(element(atom.Meta, html.Attribute{Key: "charset", Val: "utf-8"}))
	head.AppendChild(withText(element(atom.Title), "Evaluation "+r.RunID))
	head.AppendChild(withText(element(atom.Style),
		"table{border-collapse:collapse}td,th{border:1px solid #ccc;padding:4px 8px}td.num{text-align:right}"))
	root.AppendChild(head)

	body := element(atom.Body)
	root.AppendChild(body)
	body.AppendChild(withText(element(atom.H1), "Table Recognition Evaluation"))

	meta := element(atom.Dl)
	for _, kv := range [][2]string{
		{"Run", r.RunID},
		{"Generated", r.GeneratedAt.Format("2006-01-02 15:04:05 MST")},
		{"Input", r.Input},
		{"Ground truth", r.GroundTruth},
		{"Files considered", fmt.Sprintf("%d", r.Files)},
	} {
		if kv[1] == "" {
			continue
		}
		meta.AppendChild(withText(element(atom.Dt), kv[0]))
		meta.AppendChild(withText(element(atom.Dd), kv[1]))
	}
	body.AppendChild(meta)

	groups := r.Groups()
	table := element(atom.Table)
	thead := element(atom.Thead)
	hr := element(atom.Tr)
	hr.AppendChild(withText(element(atom.Th), "Metric"))
	for _, g := range groups {
		hr.AppendChild(withText(element(atom.Th), g))
	}
	thead.AppendChild(hr)
	table.AppendChild(thead)

	tbody := element(atom.Tbody)
	for _, m := range r.Metrics() {
		tr := element(atom.Tr)
		tr.AppendChild(withText(element(atom.Td), m))
		for _, g := range groups {
			tr.AppendChild(withText(element(atom.Td, html.Attribute{Key: "class", Val: "num"}), fmtValue(r, m, g)))
		}
		tbody.AppendChild(tr)
	}
	table.AppendChild(tbody)
	body.AppendChild(table)

	if err := html.Render(w, doc); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}
