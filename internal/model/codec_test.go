package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringListRoundTrip(t *testing.T) {
	l := StringList{"Figma", "Miro"}
	v, err := l.Value()
	require.NoError(t, err)
	assert.Equal(t, `["Figma","Miro"]`, v)

	var out StringList
	require.NoError(t, out.Scan(v))
	assert.Equal(t, l, out)
}

func TestStringListNilMarshalsAsEmptyArray(t *testing.T) {
	var l StringList
	b, err := json.Marshal(l)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(b))

	v, err := l.Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)
}

func TestStringListScanNullAndEmpty(t *testing.T) {
	var l StringList
	require.NoError(t, l.Scan(nil))
	assert.Empty(t, l)

	require.NoError(t, l.Scan(""))
	assert.Empty(t, l)

	assert.Error(t, l.Scan(42))
}

func TestPropertiesRoundTrip(t *testing.T) {
	p := Properties{"type": "archival_consciousness"}
	v, err := p.Value()
	require.NoError(t, err)

	var out Properties
	require.NoError(t, out.Scan(v))
	assert.Equal(t, p, out)
}

func TestPropertiesNilMarshalsAsEmptyObject(t *testing.T) {
	var p Properties
	b, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(b))
}

func TestDateJSON(t *testing.T) {
	d := NewDate(time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC))
	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2023-06-15"`, string(b))

	var out Date
	require.NoError(t, json.Unmarshal(b, &out))
	assert.True(t, d.Equal(out.Time))
}

func TestDateFrom(t *testing.T) {
	assert.Nil(t, DateFrom(nil))

	now := time.Now()
	d := DateFrom(&now)
	require.NotNil(t, d)
	assert.True(t, now.Equal(d.Time))

	var nilDate *Date
	assert.Nil(t, nilDate.TimePtr())
}

func TestParseDateRejectsBadInput(t *testing.T) {
	_, err := ParseDate("15/06/2023")
	assert.Error(t, err)
}
