package plan

import (
	"caster-planner/internal/analyze"
	"caster-planner/internal/diagnostic"
	"caster-planner/internal/mapping"
)

func buildCollection(req *Request) Plan {
	src, dst := req.Source, req.Target
	if !src.IsCollection() || !dst.IsCollection() || !req.Options().Enabled(mapping.ConversionCollection) {
		return nil
	}

	elem := req.Map(src.ElemType, dst.ElemType)
	if elem == nil {
		req.Report(diagnostic.CouldNotCreateMapping, "", src.ElemType, dst.ElemType)
		return nil
	}

	loop := &CollectionLoop{Types: req.types(), Element: elem}
	coll := dst.Collection

	switch {
	case isDirect(elem) && canBulkConstruct(src, dst):
		loop.Strategy = CollectionBulk
		loop.Operation = coll.BulkConstructor()

	case coll.Kind.IsImmutable() || req.Config.Expression:
		loop.Strategy = CollectionProjection
		loop.Operation = coll.BulkConstructor()

	case dst.Kind == analyze.TypeKindArray:
		loop.Strategy = CollectionArrayLoop

	case coll.Kind.CanAdd():
		loop.Strategy = CollectionForEachAdd
		loop.Operation = coll.Add()
		loop.Capacity = capacityHint(src, dst)

	default:
		loop.Strategy = CollectionProjection
		loop.Operation = coll.BulkConstructor()
	}

	return loop
}

func buildExistingCollection(req *Request) Plan {
	src, dst := req.Source, req.Target
	if !src.IsCollection() || !dst.IsCollection() || !dst.Collection.Kind.CanAdd() {
		return nil
	}

	elem := req.Map(src.ElemType, dst.ElemType)
	if elem == nil {
		req.Report(diagnostic.CouldNotCreateMapping, "", src.ElemType, dst.ElemType)
		return nil
	}

	return &CollectionLoop{
		Types:     req.types(),
		Strategy:  CollectionExistingAdd,
		Element:   elem,
		Operation: dst.Collection.Add(),
		Capacity:  capacityHint(src, dst),
	}
}

func buildDictionary(req *Request) Plan {
	src, dst := req.Source, req.Target
	if !src.IsDictionary() || !dst.IsDictionary() || !req.Options().Enabled(mapping.ConversionDictionary) {
		return nil
	}

	key, value := mapEntry(req)
	if key == nil || value == nil {
		return nil
	}

	loop := &DictionaryLoop{Types: req.types(), Key: key, Value: value}
	coll := dst.Collection

	switch {
	case isDirect(key) && isDirect(value) && !dst.KeyType.IsNullable() && canBulkConstruct(src, dst):
		loop.Strategy = CollectionBulk
		loop.Operation = coll.BulkConstructor()

	case coll.Kind.IsImmutable() || req.Config.Expression:
		loop.Strategy = CollectionProjection
		loop.Operation = coll.BulkConstructor()

	case coll.Kind.CanAdd():
		loop.Strategy = CollectionForEachAdd
		loop.Operation = coll.Add()
		loop.Capacity = capacityHint(src, dst)

	default:
		loop.Strategy = CollectionProjection
		loop.Operation = coll.BulkConstructor()
	}

	return loop
}

func buildExistingDictionary(req *Request) Plan {
	src, dst := req.Source, req.Target
	if !src.IsDictionary() || !dst.IsDictionary() || !dst.Collection.Kind.CanAdd() {
		return nil
	}

	key, value := mapEntry(req)
	if key == nil || value == nil {
		return nil
	}

	return &DictionaryLoop{
		Types:     req.types(),
		Strategy:  CollectionExistingAdd,
		Key:       key,
		Value:     value,
		Operation: dst.Collection.Add(),
		Capacity:  capacityHint(src, dst),
	}
}

func mapEntry(req *Request) (key, value *Cell) {
	src, dst := req.Source, req.Target

	key = req.Map(src.KeyType, dst.KeyType)
	if key == nil {
		req.Report(diagnostic.CouldNotCreateMapping, "", src.KeyType, dst.KeyType)
		return nil, nil
	}

	value = req.Map(src.ElemType, dst.ElemType)
	if value == nil {
		req.Report(diagnostic.CouldNotCreateMapping, "", src.ElemType, dst.ElemType)
		return nil, nil
	}

	return key, value
}

func isDirect(c *Cell) bool {
	_, ok := c.Plan.(*DirectAssignment)
	return ok
}

// canBulkConstruct reports whether the bulk constructor of dst accepts src:
// either both have the same shape, or dst declares a constructor taking
// any sequence.
func canBulkConstruct(src, dst *analyze.TypeInfo) bool {
	if dst.Collection.BulkConstructor() == "" || dst.Kind == analyze.TypeKindArray {
		return false
	}

	return dst.Collection.FromSequence != "" || src.Collection.Kind == dst.Collection.Kind
}

// capacityHint pre-sizes dst when it can reserve room and the number of
// source elements is known without enumerating them.
func capacityHint(src, dst *analyze.TypeInfo) *EnsureCapacityHint {
	method := dst.Collection.Capacity()
	if method == "" {
		return nil
	}

	if count := src.Collection.Count(); count != "" {
		return &EnsureCapacityHint{TargetMethod: method, SourceCount: count}
	}

	if src.Collection.NonEnumeratedCount {
		return &EnsureCapacityHint{TargetMethod: method, NonEnumerated: true}
	}

	return nil
}
