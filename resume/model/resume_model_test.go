package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAndScalar(t *testing.T) {
	var d ExtractedResumeData
	require.NoError(t, d.Set(FieldName, "山田太郎"))
	require.NoError(t, d.Set(FieldAge, "34"))
	require.NoError(t, d.Set(FieldHasSpouse, "あり"))
	require.NoError(t, d.Set(FieldSupportingSpouse, "なし"))

	v, ok := d.Scalar(FieldName)
	assert.True(t, ok)
	assert.Equal(t, "山田太郎", v)

	v, ok = d.Scalar(FieldAge)
	assert.True(t, ok)
	assert.Equal(t, 34, v)

	v, ok = d.Scalar(FieldHasSpouse)
	assert.True(t, ok)
	assert.Equal(t, true, v)

	v, ok = d.Scalar(FieldSupportingSpouse)
	assert.True(t, ok)
	assert.Equal(t, false, v)

	_, ok = d.Scalar(FieldEmail)
	assert.False(t, ok)
}

func TestSetRejectsBadInteger(t *testing.T) {
	var d ExtractedResumeData
	assert.Error(t, d.Set(FieldDependents, "two"))
	assert.Nil(t, d.Dependents)
	assert.Error(t, d.Set(Field("unknown"), "x"))
}

func TestJSONOmitsAbsentFields(t *testing.T) {
	var d ExtractedResumeData
	require.NoError(t, d.Set(FieldEmail, ""))
	require.NoError(t, d.SetList(FieldLicenses, []Entry{{Year: "2015", Month: "6", Description: "普通自動車免許"}}))

	raw, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `{"email":"","licenses":[{"year":"2015","month":"6","description":"普通自動車免許"}]}`, string(raw))
	assert.Len(t, d.List(FieldLicenses), 1)
	assert.Nil(t, d.List(FieldWorkHistory))
}

func TestFieldListsCoverEveryField(t *testing.T) {
	assert.Len(t, ScalarFields, 25)
	assert.Len(t, ListFields, 3)
}

func TestEveryScalarFieldRoundTrips(t *testing.T) {
	for _, f := range ScalarFields {
		var d ExtractedResumeData
		raw := "1"
		require.NoError(t, d.Set(f, raw), f)
		_, ok := d.Scalar(f)
		assert.True(t, ok, f)
	}
}
