package analyze

import (
	"errors"
	"fmt"
	"go/ast"
	"go/constant"
	"go/token"
	"go/types"
	"reflect"
	"sort"
	"strings"

	"golang.org/x/tools/go/packages"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

// Directives recognised in doc comments.
const (
	flagsDirective       = "caster:flags"
	constructorDirective = "caster:constructor"
	deprecatedPrefix     = "Deprecated:"
)

// Analyzer loads Go packages and builds a type graph.
type Analyzer struct {
	graph     *TypeGraph
	typeCache map[types.Type]*TypeInfo // Cache to handle recursive types
	docs      map[token.Pos]string
	loaded    map[string]bool
}

// NewAnalyzer creates a new Analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		graph:     NewTypeGraph(),
		typeCache: make(map[types.Type]*TypeInfo),
		docs:      make(map[token.Pos]string),
		loaded:    make(map[string]bool),
	}
}

// LoadPackages loads the specified packages and builds the type graph.
// Patterns are standard Go package patterns (e.g., "./store", "caster-planner/warehouse").
func (a *Analyzer) LoadPackages(patterns ...string) (*TypeGraph, error) {
	cfg := &packages.Config{
		Mode: LoadMode,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	// Check for package errors
	var errs []error

	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors: %w", errors.Join(errs...))
	}

	for _, pkg := range pkgs {
		a.loaded[pkg.PkgPath] = true
		a.collectDocs(pkg)
	}

	// Process each package
	for _, pkg := range pkgs {
		if err := a.processPackage(pkg); err != nil {
			return nil, fmt.Errorf("failed to process package %s: %w", pkg.PkgPath, err)
		}
	}

	a.linkInterfaces()

	return a.graph, nil
}

// Graph returns the current type graph.
func (a *Analyzer) Graph() *TypeGraph {
	return a.graph
}

// collectDocs indexes doc comments by the position of the declared identifier.
func (a *Analyzer) collectDocs(pkg *packages.Package) {
	for _, file := range pkg.Syntax {
		for _, decl := range file.Decls {
			switch d := decl.(type) {
			case *ast.FuncDecl:
				if d.Doc != nil {
					a.docs[d.Name.Pos()] = rawText(d.Doc)
				}

			case *ast.GenDecl:
				for _, spec := range d.Specs {
					a.collectSpecDocs(d, spec)
				}
			}
		}
	}
}

func (a *Analyzer) collectSpecDocs(decl *ast.GenDecl, spec ast.Spec) {
	docText := func(g *ast.CommentGroup) string {
		if g == nil && len(decl.Specs) == 1 {
			g = decl.Doc
		}

		return rawText(g)
	}

	switch s := spec.(type) {
	case *ast.TypeSpec:
		a.docs[s.Name.Pos()] = docText(s.Doc)

		st, ok := s.Type.(*ast.StructType)
		if !ok {
			return
		}

		for _, field := range st.Fields.List {
			if field.Doc == nil {
				continue
			}

			for _, name := range field.Names {
				a.docs[name.Pos()] = rawText(field.Doc)
			}
		}

	case *ast.ValueSpec:
		text := docText(s.Doc)
		for _, name := range s.Names {
			a.docs[name.Pos()] = text
		}
	}
}

// rawText returns the comment lines without markers. Unlike CommentGroup.Text
// it keeps directive lines such as "//caster:flags".
func rawText(g *ast.CommentGroup) string {
	if g == nil {
		return ""
	}

	lines := make([]string, 0, len(g.List))
	for _, c := range g.List {
		line := strings.TrimPrefix(c.Text, "//")
		line = strings.TrimPrefix(line, "/*")
		line = strings.TrimSuffix(line, "*/")
		lines = append(lines, strings.TrimSpace(line))
	}

	return strings.Join(lines, "\n")
}

func (a *Analyzer) docOf(obj types.Object) string {
	return a.docs[obj.Pos()]
}

func (a *Analyzer) deprecated(obj types.Object) bool {
	doc := a.docOf(obj)

	return strings.HasPrefix(doc, deprecatedPrefix) || strings.Contains(doc, "\n"+deprecatedPrefix)
}

// processPackage extracts types, enum values, constructors and parse functions
// from a loaded package.
func (a *Analyzer) processPackage(pkg *packages.Package) error {
	pkgInfo := &PackageInfo{
		Path: pkg.PkgPath,
		Name: pkg.Name,
	}
	a.graph.Packages[pkg.PkgPath] = pkgInfo

	scope := pkg.Types.Scope()

	for _, name := range scope.Names() {
		typeName, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || !typeName.Exported() || typeName.IsAlias() {
			continue
		}

		typeInfo := a.analyzeType(typeName.Type())
		a.graph.Types[typeInfo.ID] = typeInfo
		pkgInfo.Types = append(pkgInfo.Types, typeInfo.ID)
	}

	for _, name := range scope.Names() {
		switch obj := scope.Lookup(name).(type) {
		case *types.Const:
			a.addEnumValue(obj)
		case *types.Func:
			a.addFunc(obj)
		}
	}

	return nil
}

// analyzeType recursively analyzes a go/types.Type and returns a TypeInfo.
func (a *Analyzer) analyzeType(t types.Type) *TypeInfo {
	// Check cache to handle recursive types
	if cached, ok := a.typeCache[t]; ok {
		return cached
	}

	switch tt := t.(type) {
	case *types.Basic:
		info := Basic(basicFromGo(tt))
		if info == nil {
			info = &TypeInfo{Kind: TypeKindUnknown, GoType: t}
		}

		a.typeCache[t] = info

		return info

	case *types.Pointer:
		info := a.graph.PointerTo(a.analyzeType(tt.Elem()))
		a.typeCache[t] = info

		return info

	case *types.Slice:
		info := a.graph.SliceOf(a.analyzeType(tt.Elem()))
		a.typeCache[t] = info

		return info

	case *types.Array:
		info := a.graph.ArrayOf(a.analyzeType(tt.Elem()), int(tt.Len()))
		a.typeCache[t] = info

		return info

	case *types.Map:
		info := a.graph.MapOf(a.analyzeType(tt.Key()), a.analyzeType(tt.Elem()))
		a.typeCache[t] = info

		return info

	case *types.Alias:
		return a.analyzeType(types.Unalias(tt))
	}

	info := &TypeInfo{
		GoType: t,
	}

	// Pre-cache to handle recursive types (we'll fill in details)
	a.typeCache[t] = info

	switch tt := t.(type) {
	case *types.Named:
		a.analyzeNamedType(tt, info)

	case *types.Struct:
		info.Kind = TypeKindStruct
		info.ValueType = true
		a.analyzeStructFields(tt, info)

	case *types.Interface:
		info.Kind = TypeKindInterface

	case *types.Signature:
		info.Kind = TypeKindFunc

	case *types.TypeParam:
		info.Kind = TypeKindTypeParam
		info.ID = TypeID{Name: tt.Obj().Name()}

	default:
		// Channels and the like are marked as unknown (unsupported)
		info.Kind = TypeKindUnknown
	}

	return info
}

// analyzeNamedType analyzes a named type.
func (a *Analyzer) analyzeNamedType(named *types.Named, info *TypeInfo) {
	obj := named.Obj()

	pkgPath := ""
	if obj.Pkg() != nil {
		pkgPath = obj.Pkg().Path()
	}

	info.ID = TypeID{
		PkgPath: pkgPath,
		Name:    obj.Name(),
	}
	info.Obsolete = a.deprecated(obj)

	if args := named.TypeArgs(); args != nil {
		for i := range args.Len() {
			info.TypeArgs = append(info.TypeArgs, a.analyzeType(args.At(i)))
		}
	}

	if pkgPath == "" || !a.loaded[pkgPath] {
		// External/opaque type (e.g., time.Time, or error)
		info.Kind = TypeKindExternal
		_, isIface := named.Underlying().(*types.Interface)
		info.ValueType = !isIface
		info.Immutable = !isIface
		a.analyzeMethods(named, info)

		return
	}

	switch ut := named.Underlying().(type) {
	case *types.Struct:
		info.Kind = TypeKindStruct
		info.ValueType = true
		a.analyzeStructFields(ut, info)
		info.Constructors = append(info.Constructors, Constructor{Accessible: true})

	case *types.Basic:
		// Becomes an enum once constants of the type are found.
		info.Kind = TypeKindBasic
		info.Basic = basicFromGo(ut)
		info.Underlying = Basic(info.Basic)
		info.ValueType = true
		info.Immutable = true

	case *types.Slice:
		info.Kind = TypeKindSlice
		info.ElemType = a.analyzeType(ut.Elem())
		info.Underlying = a.analyzeType(ut)
		info.Collection = &CollectionInfo{Kind: CollectionSlice}

	case *types.Array:
		info.Kind = TypeKindArray
		info.ElemType = a.analyzeType(ut.Elem())
		info.Len = int(ut.Len())
		info.Underlying = a.analyzeType(ut)
		info.ValueType = true
		info.Collection = &CollectionInfo{Kind: CollectionArray}

	case *types.Map:
		info.Kind = TypeKindMap
		info.KeyType = a.analyzeType(ut.Key())
		info.ElemType = a.analyzeType(ut.Elem())
		info.Underlying = a.analyzeType(ut)
		info.Collection = &CollectionInfo{Kind: CollectionMap}

	case *types.Interface:
		info.Kind = TypeKindInterface
		info.Abstract = true

	case *types.Signature:
		info.Kind = TypeKindFunc

	default:
		info.Kind = TypeKindUnknown
	}

	a.analyzeMethods(named, info)
}

// analyzeMethods records String() and To<Type>() methods.
func (a *Analyzer) analyzeMethods(named *types.Named, info *TypeInfo) {
	mset := types.NewMethodSet(types.NewPointer(named))

	for i := range mset.Len() {
		fn, ok := mset.At(i).Obj().(*types.Func)
		if !ok || !fn.Exported() {
			continue
		}

		sig, ok := fn.Type().(*types.Signature)
		if !ok || sig.Params().Len() != 0 || sig.Results().Len() != 1 {
			continue
		}

		result := sig.Results().At(0).Type()

		switch {
		case fn.Name() == "String" && types.Identical(result, types.Typ[types.String]):
			info.Stringer = true

		case strings.HasPrefix(fn.Name(), "To"):
			resNamed, ok := result.(*types.Named)
			if !ok || fn.Name() != "To"+resNamed.Obj().Name() {
				continue
			}

			info.Conversions = append(info.Conversions, ConversionOp{
				Name:     fn.Name(),
				From:     info,
				To:       a.analyzeType(result),
				Explicit: true,
			})
		}
	}
}

// analyzeStructFields extracts fields from a struct type.
func (a *Analyzer) analyzeStructFields(st *types.Struct, info *TypeInfo) {
	for i := range st.NumFields() {
		field := st.Field(i)

		// Only process exported fields
		if !field.Exported() {
			continue
		}

		tag := reflect.StructTag(st.Tag(i))
		fieldInfo := FieldInfo{
			Name:     field.Name(),
			Exported: field.Exported(),
			Type:     a.analyzeType(field.Type()),
			Tag:      tag,
			Embedded: field.Embedded(),
			Index:    i,
			Obsolete: a.deprecated(field),
		}

		applyFieldTag(&fieldInfo, tag.Get("caster"))

		if fieldInfo.Embedded && info.Base == nil && fieldInfo.Type.Kind == TypeKindStruct {
			info.Base = fieldInfo.Type
		}

		info.Fields = append(info.Fields, fieldInfo)
	}
}

// applyFieldTag applies the options of a `caster:"..."` struct tag.
func applyFieldTag(f *FieldInfo, tag string) {
	for opt := range strings.SplitSeq(tag, ",") {
		switch strings.TrimSpace(opt) {
		case "-":
			f.Ignored = true
		case "required":
			f.Required = true
		case "init":
			f.InitOnly = true
		case "readonly":
			f.ReadOnly = true
		case "writeonly":
			f.WriteOnly = true
		}
	}
}

// addEnumValue turns a named basic type into an enum when a constant of it is declared.
func (a *Analyzer) addEnumValue(c *types.Const) {
	named, ok := c.Type().(*types.Named)
	if !ok || !c.Exported() {
		return
	}

	info := a.typeCache[named]
	if info == nil || (info.Kind != TypeKindBasic && info.Kind != TypeKindEnum) || !info.IsNamed() {
		return
	}

	if info.Enum == nil {
		info.Kind = TypeKindEnum
		info.Enum = &EnumInfo{
			Underlying: info.Underlying,
			Flags:      strings.Contains(a.docOf(named.Obj()), flagsDirective),
		}
		info.Constructors = nil
	}

	val := EnumValue{
		Name:     c.Name(),
		Literal:  c.Val().ExactString(),
		Obsolete: a.deprecated(c),
	}

	if c.Val().Kind() == constant.Int {
		val.Value, _ = constant.Int64Val(c.Val())
	}

	info.Enum.Values = append(info.Enum.Values, val)
}

// addFunc records New<Type> constructors and Parse<Type> functions.
func (a *Analyzer) addFunc(fn *types.Func) {
	sig, ok := fn.Type().(*types.Signature)
	if !ok || sig.Recv() != nil || !fn.Exported() {
		return
	}

	results := sig.Results()
	if results.Len() == 0 || results.Len() > 2 {
		return
	}

	if results.Len() == 2 && !isError(results.At(1).Type()) {
		return
	}

	resType := results.At(0).Type()
	if ptr, ok := resType.(*types.Pointer); ok {
		resType = ptr.Elem()
	}

	named, ok := resType.(*types.Named)
	if !ok {
		return
	}

	info := a.typeCache[named]
	if info == nil {
		return
	}

	typeName := named.Obj().Name()

	switch fn.Name() {
	case "New" + typeName:
		ctor := Constructor{
			Name:       fn.Name(),
			Accessible: true,
			Obsolete:   a.deprecated(fn),
			Preferred:  strings.Contains(a.docOf(fn), constructorDirective),
		}

		params := sig.Params()
		for i := range params.Len() {
			p := params.At(i)
			optional := sig.Variadic() && i == params.Len()-1
			ctor.Params = append(ctor.Params, Param{
				Name:     p.Name(),
				Type:     a.analyzeType(p.Type()),
				Optional: optional,
			})
		}

		info.Constructors = append(info.Constructors, ctor)
		sort.SliceStable(info.Constructors, func(i, j int) bool {
			return info.Constructors[i].Name < info.Constructors[j].Name
		})

	case "Parse" + typeName:
		params := sig.Params()
		if params.Len() == 1 && types.Identical(params.At(0).Type(), types.Typ[types.String]) {
			info.ParseFunc = fn.Name()
		}
	}
}

func isError(t types.Type) bool {
	return types.Identical(t, types.Universe.Lookup("error").Type())
}

// linkInterfaces records which loaded named types implement which loaded interfaces.
func (a *Analyzer) linkInterfaces() {
	var ifaces, concrete []*TypeInfo

	for _, id := range a.sortedIDs() {
		t := a.graph.Types[id]
		if t.GoType == nil {
			continue
		}

		if t.Kind == TypeKindInterface {
			ifaces = append(ifaces, t)
		} else {
			concrete = append(concrete, t)
		}
	}

	for _, t := range concrete {
		for _, iface := range ifaces {
			it, ok := iface.GoType.Underlying().(*types.Interface)
			if !ok || it.Empty() {
				continue
			}

			if types.Implements(t.GoType, it) || types.Implements(types.NewPointer(t.GoType), it) {
				t.Interfaces = append(t.Interfaces, iface)
			}
		}
	}
}

func (a *Analyzer) sortedIDs() []TypeID {
	ids := make([]TypeID, 0, len(a.graph.Types))
	for id := range a.graph.Types {
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool {
		return ids[i].String() < ids[j].String()
	})

	return ids
}

// GetStruct returns the TypeInfo for a named struct by its package path and name.
func (a *Analyzer) GetStruct(pkgPath, typeName string) (*TypeInfo, error) {
	id := TypeID{PkgPath: pkgPath, Name: typeName}

	info := a.graph.GetType(id)
	if info == nil {
		return nil, fmt.Errorf("%w: %s", ErrTypeNotFound, id)
	}

	if info.Kind != TypeKindStruct {
		return nil, fmt.Errorf("type %s is not a struct (kind: %s)", id, info.Kind)
	}

	return info, nil
}
