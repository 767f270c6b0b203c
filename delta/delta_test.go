package delta_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gofleece/fleece/delta"
	"github.com/gofleece/fleece/encoder"
	"github.com/gofleece/fleece/fleece"
	"github.com/gofleece/fleece/json5"
)

func valueFromJSON(t *testing.T, text string) fleece.Value {
	t.Helper()
	enc := encoder.New()
	require.NoError(t, json5.Parse(text, enc))
	data, err := enc.Finish()
	require.NoError(t, err)
	doc, err := fleece.NewDoc(data)
	require.NoError(t, err)
	return doc.Root()
}

func applyAndDecode(t *testing.T, old fleece.Value, deltaJSON []byte, opts delta.Options) fleece.Value {
	t.Helper()
	out, err := delta.ApplyDeltaToBytes(old, deltaJSON, opts)
	require.NoError(t, err)
	doc, err := fleece.NewDoc(out)
	require.NoError(t, err)
	return doc.Root()
}

func TestCreateDeltaIdentityIsUnchanged(t *testing.T) {
	v := valueFromJSON(t, `{"a":1,"b":2}`)
	_, changed, err := delta.CreateDelta(v, v, delta.Options{})
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestCreateDeltaExampleFromDocumentedShape(t *testing.T) {
	old := valueFromJSON(t, `{"a":1,"b":2}`)
	nuu := valueFromJSON(t, `{"a":1,"b":3,"c":4}`)

	deltaJSON, changed, err := delta.CreateDelta(old, nuu, delta.Options{})
	require.NoError(t, err)
	require.True(t, changed)
	assert.Equal(t, `{"b":[0,3],"c":[4]}`, string(deltaJSON))

	result := applyAndDecode(t, old, deltaJSON, delta.Options{})
	dict, ok := result.AsDict()
	require.True(t, ok)
	assert.Equal(t, int64(1), dict.Get("a").AsInt())
	assert.Equal(t, int64(3), dict.Get("b").AsInt())
	assert.Equal(t, int64(4), dict.Get("c").AsInt())
}

func TestDeltaLawRoundTripsScalars(t *testing.T) {
	cases := []struct{ old, nuu string }{
		{"1", "2"},
		{`"abc"`, `"xyz"`},
		{"true", "false"},
		{"null", "42"},
		{"1", "null"},
	}
	for _, tc := range cases {
		old := valueFromJSON(t, tc.old)
		nuu := valueFromJSON(t, tc.nuu)
		deltaJSON, changed, err := delta.CreateDelta(old, nuu, delta.Options{})
		require.NoError(t, err)
		require.True(t, changed)
		result := applyAndDecode(t, old, deltaJSON, delta.Options{})
		assert.True(t, fleece.Equal(nuu, result), "old=%s nuu=%s delta=%s", tc.old, tc.nuu, deltaJSON)
	}
}

func TestDeltaLawRoundTripsNestedDicts(t *testing.T) {
	old := valueFromJSON(t, `{"a":1,"nested":{"x":1,"y":2},"keep":"same"}`)
	nuu := valueFromJSON(t, `{"a":1,"nested":{"x":99,"z":3},"keep":"same"}`)

	deltaJSON, changed, err := delta.CreateDelta(old, nuu, delta.Options{})
	require.NoError(t, err)
	require.True(t, changed)

	result := applyAndDecode(t, old, deltaJSON, delta.Options{})
	assert.True(t, fleece.Equal(nuu, result))
}

func TestDeltaLawRoundTripsArrayReplace(t *testing.T) {
	old := valueFromJSON(t, `{"items":[1,2,3]}`)
	nuu := valueFromJSON(t, `{"items":[1,2,3,4]}`)

	deltaJSON, changed, err := delta.CreateDelta(old, nuu, delta.Options{})
	require.NoError(t, err)
	require.True(t, changed)

	result := applyAndDecode(t, old, deltaJSON, delta.Options{})
	assert.True(t, fleece.Equal(nuu, result))
}

func TestCreateDeltaDeletionNonCompat(t *testing.T) {
	old := valueFromJSON(t, `{"a":1,"b":2}`)
	nuu := valueFromJSON(t, `{"a":1}`)

	deltaJSON, changed, err := delta.CreateDelta(old, nuu, delta.Options{})
	require.NoError(t, err)
	require.True(t, changed)
	assert.Equal(t, `{"b":[]}`, string(deltaJSON))

	result := applyAndDecode(t, old, deltaJSON, delta.Options{})
	assert.True(t, fleece.Equal(nuu, result))
}

func TestCreateDeltaDeletionCompatCarriesOldValue(t *testing.T) {
	old := valueFromJSON(t, `{"a":1,"b":2}`)
	nuu := valueFromJSON(t, `{"a":1}`)

	opts := delta.Options{Compat: true}
	deltaJSON, changed, err := delta.CreateDelta(old, nuu, opts)
	require.NoError(t, err)
	require.True(t, changed)
	assert.Equal(t, `{"b":[2,0,0]}`, string(deltaJSON))

	result := applyAndDecode(t, old, deltaJSON, opts)
	assert.True(t, fleece.Equal(nuu, result))
}

func TestCreateDeltaReplaceCompatCarriesBothValues(t *testing.T) {
	old := valueFromJSON(t, `{"a":1}`)
	nuu := valueFromJSON(t, `{"a":"changed"}`)

	opts := delta.Options{Compat: true}
	deltaJSON, changed, err := delta.CreateDelta(old, nuu, opts)
	require.NoError(t, err)
	require.True(t, changed)
	assert.Equal(t, `{"a":[1,"changed"]}`, string(deltaJSON))

	result := applyAndDecode(t, old, deltaJSON, opts)
	assert.True(t, fleece.Equal(nuu, result))
}

func TestCreateDeltaAddition(t *testing.T) {
	old := valueFromJSON(t, `{}`)
	nuu := valueFromJSON(t, `{"x":5}`)

	deltaJSON, changed, err := delta.CreateDelta(old, nuu, delta.Options{})
	require.NoError(t, err)
	require.True(t, changed)
	assert.Equal(t, `{"x":[5]}`, string(deltaJSON))
}

func TestStringSubDiffBelowThresholdFallsBackToReplace(t *testing.T) {
	old := valueFromJSON(t, `{"s":"short"}`)
	nuu := valueFromJSON(t, `{"s":"shorter"}`)

	deltaJSON, changed, err := delta.CreateDelta(old, nuu, delta.Options{})
	require.NoError(t, err)
	require.True(t, changed)
	// Below the sub-diff threshold: a plain replacement, not a ",0,2]" patch.
	assert.NotContains(t, string(deltaJSON), ",0,2]")

	result := applyAndDecode(t, old, deltaJSON, delta.Options{})
	dict, _ := result.AsDict()
	assert.Equal(t, "shorter", dict.Get("s").AsString())
}

func TestStringSubDiffAboveThresholdProducesPatch(t *testing.T) {
	longStr := strings.Repeat("0123456789", 10) // 100 bytes
	changed := longStr[:50] + "XYZ" + longStr[50:]

	old := valueFromJSON(t, `{"s":"`+longStr+`"}`)
	nuu := valueFromJSON(t, `{"s":"`+changed+`"}`)

	deltaJSON, didChange, err := delta.CreateDelta(old, nuu, delta.Options{})
	require.NoError(t, err)
	require.True(t, didChange)
	assert.Contains(t, string(deltaJSON), ",0,2]")

	result := applyAndDecode(t, old, deltaJSON, delta.Options{})
	dict, _ := result.AsDict()
	assert.Equal(t, changed, dict.Get("s").AsString())
}

func TestApplyDeltaRejectsInvalidArrayShape(t *testing.T) {
	old := valueFromJSON(t, `{"a":1}`)
	_, err := delta.ApplyDeltaToBytes(old, []byte(`{"a":[1,2,3,4]}`), delta.Options{})
	require.Error(t, err)
	var fleeceErr *fleece.Error
	require.ErrorAs(t, err, &fleeceErr)
	assert.Equal(t, fleece.ErrKindInvalidData, fleeceErr.Kind)
}

func TestApplyDeltaRejectsDeletionOfAbsentKey(t *testing.T) {
	old := valueFromJSON(t, `{}`)
	_, err := delta.ApplyDeltaToBytes(old, []byte(`{"missing":[]}`), delta.Options{})
	require.Error(t, err)
}

func TestApplyDeltaRejectsNonDictTopLevel(t *testing.T) {
	old := valueFromJSON(t, `{"a":1}`)
	_, err := delta.ApplyDeltaToBytes(old, []byte(`5`), delta.Options{})
	require.Error(t, err)
}

func TestApplyDeltaRejectsMalformedJSON(t *testing.T) {
	old := valueFromJSON(t, `{"a":1}`)
	_, err := delta.ApplyDeltaToBytes(old, []byte(`{"a":`), delta.Options{})
	require.Error(t, err)
}

func TestApplyDeltaUnchangedKeysPassThrough(t *testing.T) {
	old := valueFromJSON(t, `{"a":1,"b":2,"c":3}`)
	result := applyAndDecode(t, old, []byte(`{"b":[0,99]}`), delta.Options{})
	dict, ok := result.AsDict()
	require.True(t, ok)
	assert.Equal(t, int64(1), dict.Get("a").AsInt())
	assert.Equal(t, int64(99), dict.Get("b").AsInt())
	assert.Equal(t, int64(3), dict.Get("c").AsInt())
}
