package fleece_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gofleece/fleece/encoder"
	"github.com/gofleece/fleece/fleece"
	"github.com/gofleece/fleece/sharedkeys"
)

func buildDoc(t *testing.T, write func(enc *encoder.Encoder)) *fleece.Doc {
	t.Helper()
	enc := encoder.New()
	write(enc)
	data, err := enc.Finish()
	require.NoError(t, err)
	doc, err := fleece.NewDoc(data)
	require.NoError(t, err)
	return doc
}

func TestDocRootScalars(t *testing.T) {
	doc := buildDoc(t, func(enc *encoder.Encoder) { enc.WriteInt(7) })
	assert.Equal(t, fleece.TypeInt, doc.Root().Type())
	assert.Equal(t, int64(7), doc.Root().AsInt())
}

func TestDocNewDocRejectsCorruptData(t *testing.T) {
	_, err := fleece.NewDoc([]byte{0x00, 0x01, 0x02})
	require.Error(t, err)
	var ferr *fleece.Error
	require.ErrorAs(t, err, &ferr)
}

func TestDocNewDocTrustedSkipsValidation(t *testing.T) {
	doc := buildDoc(t, func(enc *encoder.Encoder) { enc.WriteString("ok") })
	trusted := fleece.NewDocTrusted(doc.Bytes())
	assert.Equal(t, "ok", trusted.Root().AsString())
}

func TestArrayAccessors(t *testing.T) {
	doc := buildDoc(t, func(enc *encoder.Encoder) {
		enc.BeginArray()
		enc.WriteInt(1)
		enc.WriteBool(true)
		enc.WriteFloat64(2.5)
		enc.WriteString("s")
		enc.WriteNull()
		enc.EndArray()
	})
	arr, ok := doc.Root().AsArray()
	require.True(t, ok)
	require.Equal(t, 5, arr.Count())
	assert.Equal(t, int64(1), arr.Get(0).AsInt())
	assert.True(t, arr.Get(1).AsBool())
	assert.Equal(t, 2.5, arr.Get(2).AsFloat64())
	assert.Equal(t, "s", arr.Get(3).AsString())
	assert.Equal(t, fleece.TypeNull, arr.Get(4).Type())
}

func TestDictGetAndIteratorOrder(t *testing.T) {
	doc := buildDoc(t, func(enc *encoder.Encoder) {
		enc.BeginDict()
		enc.WriteKey("zebra")
		enc.WriteInt(1)
		enc.WriteKey("apple")
		enc.WriteInt(2)
		enc.WriteKey("mango")
		enc.WriteInt(3)
		enc.EndDict()
	})
	dict, ok := doc.Root().AsDict()
	require.True(t, ok)
	assert.Equal(t, int64(2), dict.Get("apple").AsInt())
	assert.Equal(t, int64(1), dict.Get("zebra").AsInt())
	assert.True(t, dict.Get("missing").IsUndefined())

	var keys []string
	it := dict.Iterator()
	for it.Next() {
		keys = append(keys, it.Key())
	}
	assert.Equal(t, []string{"apple", "mango", "zebra"}, keys)
}

func TestDictGetCaseInsensitive(t *testing.T) {
	doc := buildDoc(t, func(enc *encoder.Encoder) {
		enc.BeginDict()
		enc.WriteKey("Name")
		enc.WriteString("gopher")
		enc.EndDict()
	})
	dict, ok := doc.Root().AsDict()
	require.True(t, ok)
	assert.Equal(t, "gopher", dict.GetCaseInsensitive("name").AsString())
	assert.Equal(t, "gopher", dict.GetCaseInsensitive("NAME").AsString())
	assert.True(t, dict.GetCaseInsensitive("nope").IsUndefined())
}

func TestDictToMap(t *testing.T) {
	doc := buildDoc(t, func(enc *encoder.Encoder) {
		enc.BeginDict()
		enc.WriteKey("a")
		enc.WriteInt(1)
		enc.WriteKey("b")
		enc.WriteInt(2)
		enc.EndDict()
	})
	dict, ok := doc.Root().AsDict()
	require.True(t, ok)
	m := dict.ToMap()
	require.Len(t, m, 2)
	assert.Equal(t, int64(1), m["a"].AsInt())
	assert.Equal(t, int64(2), m["b"].AsInt())
}

func TestDictWithSharedKeysResolvesIntegerKeys(t *testing.T) {
	keys := sharedkeys.New()
	enc := encoder.New(encoder.WithSharedKeys(keys))
	enc.BeginDict()
	enc.WriteKey("type")
	enc.WriteString("dog")
	enc.EndDict()
	data, err := enc.Finish()
	require.NoError(t, err)
	doc, err := fleece.NewDoc(data)
	require.NoError(t, err)
	doc.SetSharedKeys(keys)

	dict, ok := doc.Root().AsDict()
	require.True(t, ok)
	assert.Equal(t, "dog", dict.Get("type").AsString())
	var sawKey string
	it := dict.Iterator()
	for it.Next() {
		sawKey = it.Key()
	}
	assert.Equal(t, "type", sawKey)
}

func TestDictGetResolvesSharedKeysWhoseIDOrderDisagreesWithNameOrder(t *testing.T) {
	keys := sharedkeys.New()
	enc := encoder.New(encoder.WithSharedKeys(keys))
	enc.BeginDict()
	// "type" is interned first (id 0), "id" second (id 1); alphabetically
	// "id" < "type", but the slot table is sorted by id, so the stored
	// order is type, then id — a lookup keyed on decoded-name order would
	// disagree with the actual slot order.
	enc.WriteKey("type")
	enc.WriteString("widget")
	enc.WriteKey("id")
	enc.WriteInt(42)
	enc.EndDict()
	data, err := enc.Finish()
	require.NoError(t, err)
	doc, err := fleece.NewDoc(data)
	require.NoError(t, err)
	doc.SetSharedKeys(keys)

	dict, ok := doc.Root().AsDict()
	require.True(t, ok)
	assert.Equal(t, "widget", dict.Get("type").AsString())
	assert.Equal(t, int64(42), dict.Get("id").AsInt())
	assert.True(t, dict.Get("missing").IsUndefined())
}

func TestDictGetMixesSharedKeysAndStringKeys(t *testing.T) {
	keys := sharedkeys.New()
	enc := encoder.New(encoder.WithSharedKeys(keys))
	enc.BeginDict()
	enc.WriteKey("type")
	enc.WriteString("widget")
	enc.WriteKey("id")
	enc.WriteInt(42)
	enc.WriteKey("a-key-too-long-to-ever-be-interned")
	enc.WriteString("overflow")
	enc.EndDict()
	data, err := enc.Finish()
	require.NoError(t, err)
	doc, err := fleece.NewDoc(data)
	require.NoError(t, err)
	doc.SetSharedKeys(keys)

	dict, ok := doc.Root().AsDict()
	require.True(t, ok)
	assert.Equal(t, "widget", dict.Get("type").AsString())
	assert.Equal(t, int64(42), dict.Get("id").AsInt())
	assert.Equal(t, "overflow", dict.Get("a-key-too-long-to-ever-be-interned").AsString())
}

func TestDictKeyCachesHintAcrossRepeatedLookups(t *testing.T) {
	keys := sharedkeys.New()
	enc := encoder.New(encoder.WithSharedKeys(keys))
	enc.BeginDict()
	enc.WriteKey("type")
	enc.WriteString("widget")
	enc.WriteKey("id")
	enc.WriteInt(7)
	enc.EndDict()
	data, err := enc.Finish()
	require.NoError(t, err)
	doc, err := fleece.NewDoc(data)
	require.NoError(t, err)
	doc.SetSharedKeys(keys)

	dict, ok := doc.Root().AsDict()
	require.True(t, ok)

	dk := fleece.NewDictKey("id")
	assert.Equal(t, int64(7), dk.Get(dict).AsInt())
	// Second call should hit the cached hint and still resolve correctly.
	assert.Equal(t, int64(7), dk.Get(dict).AsInt())
}

func TestKeyPathBasicNavigation(t *testing.T) {
	doc := buildDoc(t, func(enc *encoder.Encoder) {
		enc.BeginDict()
		enc.WriteKey("addresses")
		enc.BeginArray()
		enc.BeginDict()
		enc.WriteKey("city")
		enc.WriteString("Springfield")
		enc.EndDict()
		enc.EndArray()
		enc.EndDict()
	})
	v, err := fleece.EvalKeyPath(doc.Root(), "addresses[0].city")
	require.NoError(t, err)
	assert.Equal(t, "Springfield", v.AsString())
}

func TestKeyPathNegativeIndex(t *testing.T) {
	doc := buildDoc(t, func(enc *encoder.Encoder) {
		enc.BeginDict()
		enc.WriteKey("items")
		enc.BeginArray()
		enc.WriteInt(1)
		enc.WriteInt(2)
		enc.WriteInt(3)
		enc.EndArray()
		enc.EndDict()
	})
	v, err := fleece.EvalKeyPath(doc.Root(), "items[-1]")
	require.NoError(t, err)
	assert.Equal(t, int64(3), v.AsInt())
}

func TestKeyPathMissingSegmentIsUndefined(t *testing.T) {
	doc := buildDoc(t, func(enc *encoder.Encoder) {
		enc.BeginDict()
		enc.WriteKey("a")
		enc.WriteInt(1)
		enc.EndDict()
	})
	v, err := fleece.EvalKeyPath(doc.Root(), "a.b.c")
	require.NoError(t, err)
	assert.True(t, v.IsUndefined())
}

func TestKeyPathEscapedCharacters(t *testing.T) {
	kp, err := fleece.NewKeyPath(`foo\.bar`)
	require.NoError(t, err)
	assert.Equal(t, `foo\.bar`, kp.String())
}

func TestKeyPathUnterminatedBracketErrors(t *testing.T) {
	_, err := fleece.NewKeyPath("items[0")
	require.Error(t, err)
}

func TestDeepIteratorPreOrderAndPaths(t *testing.T) {
	doc := buildDoc(t, func(enc *encoder.Encoder) {
		enc.BeginDict()
		enc.WriteKey("a")
		enc.WriteInt(1)
		enc.WriteKey("b")
		enc.BeginArray()
		enc.WriteInt(2)
		enc.WriteInt(3)
		enc.EndArray()
		enc.EndDict()
	})

	it := fleece.NewDeepIterator(doc.Root())
	var paths []string
	for it.Next() {
		paths = append(paths, it.PathString())
	}
	assert.Equal(t, []string{"", "a", "b", "b[0]", "b[1]"}, paths)
}

func TestDeepIteratorSkipChildren(t *testing.T) {
	doc := buildDoc(t, func(enc *encoder.Encoder) {
		enc.BeginDict()
		enc.WriteKey("skip")
		enc.BeginArray()
		enc.WriteInt(1)
		enc.WriteInt(2)
		enc.EndArray()
		enc.WriteKey("keep")
		enc.WriteInt(9)
		enc.EndDict()
	})

	it := fleece.NewDeepIterator(doc.Root())
	var paths []string
	for it.Next() {
		paths = append(paths, it.PathString())
		if it.PathString() == "skip" {
			it.SkipChildren()
		}
	}
	assert.Equal(t, []string{"", "keep", "skip"}, paths)
}

func TestDeepIteratorMaxDepth(t *testing.T) {
	doc := buildDoc(t, func(enc *encoder.Encoder) {
		enc.BeginDict()
		enc.WriteKey("a")
		enc.BeginDict()
		enc.WriteKey("b")
		enc.WriteInt(1)
		enc.EndDict()
		enc.EndDict()
	})

	it := fleece.NewDeepIterator(doc.Root())
	it.SetMaxDepth(1)
	var paths []string
	for it.Next() {
		paths = append(paths, it.PathString())
	}
	assert.Equal(t, []string{"", "a"}, paths)
}

func TestDeepIteratorJSONPointer(t *testing.T) {
	doc := buildDoc(t, func(enc *encoder.Encoder) {
		enc.BeginDict()
		enc.WriteKey("a/b")
		enc.WriteInt(1)
		enc.EndDict()
	})
	it := fleece.NewDeepIterator(doc.Root())
	require.True(t, it.Next()) // root
	require.True(t, it.Next()) // "a/b"
	assert.Equal(t, "/a~1b", it.JSONPointer())
}

func TestEqualAcrossNumericTypes(t *testing.T) {
	intDoc := buildDoc(t, func(enc *encoder.Encoder) { enc.WriteInt(5) })
	uintDoc := buildDoc(t, func(enc *encoder.Encoder) { enc.WriteUint(5) })
	assert.True(t, fleece.Equal(intDoc.Root(), uintDoc.Root()))
}

func TestEqualStructural(t *testing.T) {
	a := buildDoc(t, func(enc *encoder.Encoder) {
		enc.BeginDict()
		enc.WriteKey("x")
		enc.WriteInt(1)
		enc.WriteKey("y")
		enc.WriteInt(2)
		enc.EndDict()
	})
	b := buildDoc(t, func(enc *encoder.Encoder) {
		enc.BeginDict()
		enc.WriteKey("y")
		enc.WriteInt(2)
		enc.WriteKey("x")
		enc.WriteInt(1)
		enc.EndDict()
	})
	assert.True(t, fleece.Equal(a.Root(), b.Root()), "dict equality should be order-independent")
}

func TestEqualDetectsDifference(t *testing.T) {
	a := buildDoc(t, func(enc *encoder.Encoder) { enc.WriteInt(1) })
	b := buildDoc(t, func(enc *encoder.Encoder) { enc.WriteInt(2) })
	assert.False(t, fleece.Equal(a.Root(), b.Root()))
}

func TestUndefinedValueIsUndefined(t *testing.T) {
	var v fleece.Value
	assert.True(t, v.IsUndefined())
	assert.Equal(t, fleece.TypeUndefined, v.Type())
}

func TestDocDeepSizeCountsScalar(t *testing.T) {
	doc := buildDoc(t, func(enc *encoder.Encoder) { enc.WriteInt(7) })
	assert.Greater(t, doc.DeepSize(), 0)
}

func TestDocDeepSizeSmallerThanRawWhenSharedStringsDeduped(t *testing.T) {
	enc := encoder.New(encoder.WithUniqueStrings())
	enc.BeginArray()
	for i := 0; i < 5; i++ {
		enc.WriteString("a long repeated string value that lives out of line in the buffer")
	}
	enc.EndArray()
	data, err := enc.Finish()
	require.NoError(t, err)
	doc, err := fleece.NewDoc(data)
	require.NoError(t, err)

	// Every element points at the same deduplicated string, so DeepSize
	// (which counts each distinct address once) must be well under five
	// times the length of one copy of the string.
	arr, ok := doc.Root().AsArray()
	require.True(t, ok)
	oneElementSize := len(arr.Get(0).AsString())
	assert.Less(t, doc.DeepSize(), oneElementSize*5)
}
