package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"go/format"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

// grammar describes the syntax tree node families the ast command emits.
// Fields are written "Name Type", the way they appear in a struct.
type grammar struct {
	Package     string     `yaml:"package"`
	Expressions []nodeSpec `yaml:"expressions"`
	Statements  []nodeSpec `yaml:"statements"`
}

type nodeSpec struct {
	Name   string   `yaml:"name"`
	Fields []string `yaml:"fields"`
	Line   string   `yaml:"line"`
}

var defaultGrammar = grammar{
	Package: "lax",
	Expressions: []nodeSpec{
		{Name: "Binary", Fields: []string{"Left Expression", "Operator Token", "Right Expression"}, Line: "Operator.Line"},
		{Name: "Grouping", Fields: []string{"Expression Expression"}, Line: "Expression.Line()"},
		{Name: "Literal", Fields: []string{"Value *Value", "position int"}, Line: "position"},
		{Name: "Unary", Fields: []string{"Operator Token", "Right Expression"}, Line: "Operator.Line"},
	},
	Statements: []nodeSpec{
		{Name: "Expr", Fields: []string{"Expression Expression"}, Line: "Expression.Line()"},
		{Name: "Print", Fields: []string{"Expression Expression", "position int"}, Line: "position"},
	},
}

type nodeFamily struct {
	Package     string
	DeclareNode bool
	Base        string
	Marker      string
	Visitor     string
	Accept      string
	Noun        string
	Nodes       []nodeData
}

type nodeData struct {
	Type   string
	Fields []fieldData
	Line   string
}

type fieldData struct {
	Name string
	Type string
}

var nodeTemplate = template.Must(template.New("nodes").Parse(`// Code generated by "lax ast"; DO NOT EDIT.

package {{.Package}}

import "fmt"
{{if .DeclareNode}}
type Node interface {
	Line() int
}
{{end}}
type {{.Base}} interface {
	Node
	{{.Marker}}()
}
{{range .Nodes}}
type {{.Type}} struct {
{{- range .Fields}}
	{{.Name}} {{.Type}}
{{- end}}
}

func (n *{{.Type}}) {{$.Marker}}() {}
{{- if .Line}}
func (n *{{.Type}}) Line() int { return n.{{.Line}} }
{{- end}}
{{end}}
type {{.Visitor}}[R any] interface {
{{- range .Nodes}}
	Visit{{.Type}}(*{{.Type}}) (R, error)
{{- end}}
}

func {{.Accept}}[R any](node {{.Base}}, v {{.Visitor}}[R]) (R, error) {
	switch n := node.(type) {
{{- range .Nodes}}
	case *{{.Type}}:
		return v.Visit{{.Type}}(n)
{{- end}}
	default:
		var zero R
		return zero, fmt.Errorf("unsupported {{.Noun}} %T", node)
	}
}
`))

// astCommand regenerates the node and visitor definitions from a grammar.
func astCommand(args []string) error {
	fs := flag.NewFlagSet("ast", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	outDir := fs.String("out", "", "directory to write expr.go and stmt.go into")
	grammarPath := fs.String("grammar", "", "YAML grammar file (default: built-in grammar)")
	if err := fs.Parse(args); err != nil {
		return usageError(err)
	}
	if *outDir == "" {
		return usageError(errors.New("lax ast: -out directory required"))
	}

	g := defaultGrammar
	if *grammarPath != "" {
		loaded, err := loadGrammar(*grammarPath)
		if err != nil {
			return err
		}
		g = loaded
	}

	written, err := generateAST(g, *outDir)
	if err != nil {
		return err
	}
	for _, path := range written {
		fmt.Println("wrote", path)
	}
	return nil
}

func loadGrammar(path string) (grammar, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return grammar{}, &exitError{code: exitNoInput, err: fmt.Errorf("read grammar: %w", err)}
	}
	var g grammar
	if err := yaml.Unmarshal(raw, &g); err != nil {
		return grammar{}, &exitError{code: exitDataErr, err: fmt.Errorf("parse grammar %s: %w", path, err)}
	}
	return g, nil
}

// generateAST writes expr.go and stmt.go for g into dir and returns the
// paths written.
func generateAST(g grammar, dir string) ([]string, error) {
	if !token.IsIdentifier(g.Package) {
		return nil, &exitError{code: exitDataErr, err: fmt.Errorf("grammar: invalid package name %q", g.Package)}
	}

	families := []struct {
		file   string
		family nodeFamily
		specs  []nodeSpec
		suffix string
	}{
		{
			file:   "expr.go",
			family: nodeFamily{DeclareNode: true, Base: "Expression", Marker: "exprNode", Visitor: "ExprVisitor", Accept: "AcceptExpr", Noun: "expression"},
			specs:  g.Expressions,
			suffix: "Expr",
		},
		{
			file:   "stmt.go",
			family: nodeFamily{Base: "Statement", Marker: "stmtNode", Visitor: "StmtVisitor", Accept: "AcceptStmt", Noun: "statement"},
			specs:  g.Statements,
			suffix: "Stmt",
		},
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	written := make([]string, 0, len(families))
	for _, f := range families {
		family := f.family
		family.Package = g.Package
		nodes, err := buildNodes(f.specs, f.suffix)
		if err != nil {
			return nil, &exitError{code: exitDataErr, err: fmt.Errorf("grammar: %w", err)}
		}
		family.Nodes = nodes

		src, err := renderNodes(family)
		if err != nil {
			return nil, err
		}
		path := filepath.Join(dir, f.file)
		if err := os.WriteFile(path, src, 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}

func buildNodes(specs []nodeSpec, suffix string) ([]nodeData, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("no %s nodes defined", strings.ToLower(suffix))
	}
	seen := make(map[string]struct{}, len(specs))
	nodes := make([]nodeData, 0, len(specs))
	for _, spec := range specs {
		if !token.IsIdentifier(spec.Name) {
			return nil, fmt.Errorf("invalid node name %q", spec.Name)
		}
		typeName := spec.Name + suffix
		if _, dup := seen[typeName]; dup {
			return nil, fmt.Errorf("duplicate node %s", typeName)
		}
		seen[typeName] = struct{}{}

		node := nodeData{Type: typeName, Line: spec.Line}
		for _, raw := range spec.Fields {
			parts := strings.Fields(raw)
			if len(parts) != 2 || !token.IsIdentifier(parts[0]) {
				return nil, fmt.Errorf("%s: field %q must be written as \"Name Type\"", typeName, raw)
			}
			node.Fields = append(node.Fields, fieldData{Name: parts[0], Type: parts[1]})
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

func renderNodes(family nodeFamily) ([]byte, error) {
	var buf bytes.Buffer
	if err := nodeTemplate.Execute(&buf, family); err != nil {
		return nil, fmt.Errorf("render %s nodes: %w", family.Noun, err)
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, &exitError{code: exitDataErr, err: fmt.Errorf("format %s nodes: %w", family.Noun, err)}
	}
	return src, nil
}
