package main

import (
	"fmt"
	"go/token"
	"strings"
	"text/template"
	"unicode"

	"github.com/openlvc/portico-sub003/pkg/fom"
)

// --- Template data types ---

type fileData struct {
	Source       string
	Package      string
	FOMName      string
	Objects      []classData
	Interactions []classData
	Spaces       []classData
}

// classData is one class, or one routing space, and its members.
type classData struct {
	GoName        string
	QualifiedName string
	Members       []memberData
}

type memberData struct {
	GoName string
	Name   string
}

// --- Template ---

const fileTmpl = `// Code generated by portico-fomgen from {{.Source}}. DO NOT EDIT.

package {{.Package}}

// FOMName is the name the FOM declares.
const FOMName = {{printf "%q" .FOMName}}
{{if .Objects}}
// Object classes.
const (
{{- range .Objects}}
	{{.GoName}}Class = {{printf "%q" .QualifiedName}}
{{- end}}
)
{{range .Objects}}{{if .Members}}
// {{.QualifiedName}} attributes.
const (
{{- $class := .GoName}}
{{- range .Members}}
	{{$class}}{{.GoName}} = {{printf "%q" .Name}}
{{- end}}
)
{{end}}{{end}}{{end}}
{{- if .Interactions}}
// Interaction classes.
const (
{{- range .Interactions}}
	{{.GoName}}Interaction = {{printf "%q" .QualifiedName}}
{{- end}}
)
{{range .Interactions}}{{if .Members}}
// {{.QualifiedName}} parameters.
const (
{{- $class := .GoName}}
{{- range .Members}}
	{{$class}}{{.GoName}} = {{printf "%q" .Name}}
{{- end}}
)
{{end}}{{end}}{{end}}
{{- if .Spaces}}
// Routing spaces.
const (
{{- range .Spaces}}
	{{.GoName}}Space = {{printf "%q" .QualifiedName}}
{{- end}}
)
{{range .Spaces}}{{if .Members}}
// {{.QualifiedName}} dimensions.
const (
{{- $space := .GoName}}
{{- range .Members}}
	{{$space}}{{.GoName}} = {{printf "%q" .Name}}
{{- end}}
)
{{end}}{{end}}{{end}}`

var fileTemplate = template.Must(template.New("file").Parse(fileTmpl))

// goName turns a FOM name into an exported Go identifier:
// "ObjectRoot.Vehicle.ground-car" becomes "VehicleGroundCar".
func goName(name string) string {
	name = strings.TrimPrefix(name, fom.ObjectRootName+".")
	name = strings.TrimPrefix(name, fom.InteractionRootName+".")

	var b strings.Builder
	upper := true
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		b.WriteRune(r)
	}
	out := b.String()
	if out == "" || unicode.IsDigit(rune(out[0])) {
		out = "X" + out
	}
	return out
}

func isManagement(qualified string) bool {
	return qualified == fom.ObjectRootName+"."+fom.ManagerClassName ||
		strings.HasPrefix(qualified, fom.ObjectRootName+"."+fom.ManagerClassName+".")
}

// collect gathers the names of model. The management classes are left out
// unless withMOM is set.
func collect(model *fom.Model, source, pkg string, withMOM bool) fileData {
	data := fileData{Source: source, Package: pkg, FOMName: model.Name}

	for _, c := range model.ObjectClasses() {
		if c.Parent == nil || (!withMOM && isManagement(c.QualifiedName)) {
			continue
		}
		cd := classData{GoName: goName(c.QualifiedName), QualifiedName: c.QualifiedName}
		for _, a := range c.Declared {
			cd.Members = append(cd.Members, memberData{GoName: goName(a.Name), Name: a.Name})
		}
		data.Objects = append(data.Objects, cd)
	}

	for _, c := range model.InteractionClasses() {
		if c.Parent == nil {
			continue
		}
		cd := classData{GoName: goName(c.QualifiedName), QualifiedName: c.QualifiedName}
		for _, p := range c.Declared {
			cd.Members = append(cd.Members, memberData{GoName: goName(p.Name), Name: p.Name})
		}
		data.Interactions = append(data.Interactions, cd)
	}

	for _, s := range model.Document.Spaces {
		sd := classData{GoName: goName(s.Name), QualifiedName: s.Name}
		for _, d := range s.Dimensions {
			sd.Members = append(sd.Members, memberData{GoName: goName(d), Name: d})
		}
		data.Spaces = append(data.Spaces, sd)
	}
	return data
}

// checkNames reports two FOM names that map to the same Go identifier.
func checkNames(data fileData) error {
	seen := map[string]string{"FOMName": "the FOM name"}
	add := func(ident, from string) error {
		if prev, ok := seen[ident]; ok {
			return fmt.Errorf("%s and %s both generate %s", prev, from, ident)
		}
		seen[ident] = from
		return nil
	}
	groups := []struct {
		classes []classData
		suffix  string
	}{
		{data.Objects, "Class"},
		{data.Interactions, "Interaction"},
		{data.Spaces, "Space"},
	}
	for _, g := range groups {
		for _, c := range g.classes {
			if err := add(c.GoName+g.suffix, c.QualifiedName); err != nil {
				return err
			}
			for _, m := range c.Members {
				if err := add(c.GoName+m.GoName, c.QualifiedName+"."+m.Name); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// Generate renders the constants file for model.
func Generate(model *fom.Model, source, pkg string, withMOM bool) (string, error) {
	if !token.IsIdentifier(pkg) {
		return "", fmt.Errorf("invalid package name %q", pkg)
	}
	data := collect(model, source, pkg, withMOM)
	if err := checkNames(data); err != nil {
		return "", err
	}
	var b strings.Builder
	if err := fileTemplate.Execute(&b, data); err != nil {
		return "", fmt.Errorf("template: %w", err)
	}
	return b.String(), nil
}
