package core

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"text/template"

	"golang.org/x/tools/imports"

	tmplfs "github.com/quillbyte/dualbuf/layoutgen/templates"
)

const runtimeAlias = "buffer"

var templateFuncs = template.FuncMap{
	"rt": runtimeName,
}

func runtimeName(name string) string {
	return runtimeAlias + "." + name
}

// Options configures how generation runs.
type Options struct {
	Verbose bool
	// Structs, if non-empty, restricts generation to the
	// named struct types. Names must match Go type names
	// exactly (no package qualification).
	Structs []string
}

// Run generates field-layout descriptors for a single Go source file.
// Each eligible struct type T gets a package-level "TLayout" variable
// of type buffer.FieldLayout in outputPath, with offsets and sizes
// expressed through unsafe.Offsetof and unsafe.Sizeof so they stay
// correct across architectures.
func Run(inputPath, outputPath string, opts Options) error {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, inputPath, nil, parser.ParseComments)
	if err != nil {
		return err
	}

	return generateLayoutCode(file, outputPath, file.Name.Name, opts)
}

type fieldEntry struct {
	// Expr is the complete composite-literal entry for one
	// buffer.Field, written in terms of the struct type name.
	Expr string
}

type structLayout struct {
	Name   string
	Fields []fieldEntry
}

type structDecl struct {
	name string
	st   *ast.StructType
}

// generateLayoutCode finds struct types in the given file whose fields
// are all fixed-width and emits one layout variable per struct.
//
// Field eligibility:
//   - 1/2/4/8-byte scalars (bool, intN, uintN, floatN, byte, rune)
//   - fixed-size arrays of those
//   - named struct types that get a layout in the same output
//
// A `layout:"-"` tag excludes a field; a struct with any other
// non-representable field is skipped entirely, since a partial layout
// would silently corrupt the unswapped fields. Skipping cascades: a
// struct embedding a skipped struct is skipped too, so every emitted
// Sub reference resolves to a layout variable declared in the same
// file. All of this state is local to one invocation; runs over
// different files never see each other's types.
func generateLayoutCode(file *ast.File, outputPath, pkg string, opts Options) error {
	var allowed map[string]struct{}
	if len(opts.Structs) > 0 {
		allowed = make(map[string]struct{}, len(opts.Structs))
		for _, name := range opts.Structs {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			allowed[name] = struct{}{}
		}
	}

	var decls []structDecl
	eligible := make(map[string]*ast.StructType)
	for _, decl := range file.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}
		for _, spec := range gd.Specs {
			ts, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}
			st, ok := ts.Type.(*ast.StructType)
			if !ok {
				continue
			}
			if allowed != nil {
				if _, ok := allowed[ts.Name.Name]; !ok {
					continue
				}
			}
			decls = append(decls, structDecl{name: ts.Name.Name, st: st})
			eligible[ts.Name.Name] = st
		}
	}

	// Shrink the eligible set to a fixpoint: dropping one struct can
	// invalidate another that embeds it, regardless of declaration
	// order.
	for {
		removed := false
		for _, d := range decls {
			if _, ok := eligible[d.name]; !ok {
				continue
			}
			if structEligible(d.st, eligible) {
				continue
			}
			delete(eligible, d.name)
			removed = true
			if opts.Verbose {
				fmt.Fprintf(os.Stderr, "layoutgen: skipping %s: not a fixed-width record\n", d.name)
			}
		}
		if !removed {
			break
		}
	}

	var layouts []structLayout
	for _, d := range decls {
		if _, ok := eligible[d.name]; !ok {
			continue
		}
		layouts = append(layouts, layoutForStruct(d.name, d.st))
	}

	if len(layouts) == 0 {
		if opts.Verbose {
			fmt.Fprintf(os.Stderr, "layoutgen: no eligible structs for %s\n", outputPath)
		}
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer out.Close()

	data := struct {
		Package string
		Layouts []structLayout
	}{
		Package: pkg,
		Layouts: layouts,
	}

	var buf bytes.Buffer
	if err := layoutTemplate.ExecuteTemplate(&buf, "layout.go.tpl", data); err != nil {
		return err
	}

	src, err := imports.Process(outputPath, buf.Bytes(), nil)
	if err != nil {
		// Fall back to go/format if goimports fails.
		if formatted, ferr := format.Source(buf.Bytes()); ferr == nil {
			src = formatted
		} else {
			src = buf.Bytes()
		}
	}

	_, err = out.Write(src)
	return err
}

// structEligible reports whether every non-excluded field of st is
// representable against the current eligible set and at least one
// field remains, so the struct produces a non-empty layout variable.
func structEligible(st *ast.StructType, eligible map[string]*ast.StructType) bool {
	fields := 0
	for _, field := range st.Fields.List {
		// Anonymous fields have no stable Offsetof selector.
		if len(field.Names) == 0 {
			return false
		}
		if tagIgnores(field.Tag) {
			continue
		}
		if !fieldRepresentable(field.Type, eligible) {
			return false
		}
		fields += len(field.Names)
	}
	return fields > 0
}

func fieldRepresentable(typ ast.Expr, eligible map[string]*ast.StructType) bool {
	if arr, ok := typ.(*ast.ArrayType); ok {
		if arr.Len == nil {
			return false
		}
		typ = arr.Elt
	}
	ident, ok := typ.(*ast.Ident)
	if !ok {
		return false
	}
	switch ident.Name {
	case "bool", "int8", "uint8", "byte",
		"int16", "uint16",
		"int32", "uint32", "float32", "rune",
		"int64", "uint64", "float64":
		return true
	}
	_, ok = eligible[ident.Name]
	return ok
}

func layoutForStruct(structName string, st *ast.StructType) structLayout {
	sl := structLayout{Name: structName}
	for _, field := range st.Fields.List {
		for _, name := range field.Names {
			if tagIgnores(field.Tag) {
				continue
			}
			sl.Fields = append(sl.Fields, fieldEntry{
				Expr: fieldExpr(structName, name.Name, field.Type),
			})
		}
	}
	return sl
}

func tagIgnores(tag *ast.BasicLit) bool {
	if tag == nil {
		return false
	}
	raw := tag.Value
	if len(raw) >= 2 && raw[0] == '`' && raw[len(raw)-1] == '`' {
		raw = raw[1 : len(raw)-1]
	}
	return reflect.StructTag(raw).Get("layout") == "-"
}

// fieldExpr builds one buffer.Field composite-literal entry for the
// given field, which eligibility checking has already vetted. Offsets,
// counts and record sizes are emitted as unsafe.Offsetof / len /
// unsafe.Sizeof expressions over a zero value of the struct, evaluated
// by the compiler of the generated file.
func fieldExpr(structName, fieldName string, typ ast.Expr) string {
	offset := fmt.Sprintf("int(unsafe.Offsetof(%s{}.%s))", structName, fieldName)

	elem := typ
	count := ""
	if arr, ok := typ.(*ast.ArrayType); ok {
		elem = arr.Elt
		count = fmt.Sprintf("len(%s{}.%s)", structName, fieldName)
	}

	ident := elem.(*ast.Ident)

	kind := ""
	switch ident.Name {
	case "bool", "int8", "uint8", "byte":
		kind = runtimeName("FieldByte")
	case "int16", "uint16":
		kind = runtimeName("FieldWord")
	case "int32", "uint32", "float32", "rune":
		kind = runtimeName("FieldDWord")
	case "int64", "uint64", "float64":
		kind = runtimeName("FieldQWord")
	default:
		size := fmt.Sprintf("int(unsafe.Sizeof(%s{}))", ident.Name)
		expr := fmt.Sprintf("{Offset: %s, Kind: %s, Size: %s, Sub: %sLayout",
			offset, runtimeName("FieldRecord"), size, ident.Name)
		if count != "" {
			expr += ", Count: " + count
		}
		return expr + "}"
	}

	expr := fmt.Sprintf("{Offset: %s, Kind: %s", offset, kind)
	if count != "" {
		expr += ", Count: " + count
	}
	return expr + "}"
}

// layoutTemplate drives per-struct layout variable generation.
//
// ParseFS returns templates named by their filenames; we parse the
// layout.go.tpl file and then execute that template directly.
var layoutTemplate = template.Must(template.New("layout.go.tpl").Funcs(templateFuncs).ParseFS(tmplfs.FS, "layout.go.tpl"))
