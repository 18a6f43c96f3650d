package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInterval(t *testing.T) {
	iv, err := ParseInterval("60min")
	require.NoError(t, err)
	assert.Equal(t, Interval60Min, iv)

	_, err = ParseInterval("2min")
	assert.Error(t, err)
}

func TestParseTopic(t *testing.T) {
	topic, err := ParseTopic("economy_macro")
	require.NoError(t, err)
	assert.Equal(t, TopicEconomyMacro, topic)

	_, err = ParseTopic("Economy - Macro")
	assert.Error(t, err)
}

func TestNewsTable_PutOverwritesInPlace(t *testing.T) {
	tbl := NewNewsTable()
	t0 := time.Date(2023, 1, 20, 10, 0, 0, 0, time.UTC)

	tbl.Put(Article{URL: "a", Published: t0, Source: "first"})
	tbl.Put(Article{URL: "b", Published: t0.Add(time.Minute)})
	tbl.Put(Article{URL: "a", Published: t0, Source: "second"})

	require.Equal(t, 2, tbl.Len())
	rows := tbl.Rows()
	assert.Equal(t, "a", rows[0].URL)
	assert.Equal(t, "second", rows[0].Source)
	assert.Equal(t, "b", rows[1].URL)
}

func TestNewsTable_TopicColumnsCanonicalOrder(t *testing.T) {
	tbl := NewNewsTable()
	tbl.Put(Article{URL: "a", Topics: map[Topic]float64{TopicTechnology: 0.5}})
	tbl.Put(Article{URL: "b", Topics: map[Topic]float64{TopicEarnings: 0.9, TopicTechnology: 0.1}})

	assert.Equal(t, []Topic{TopicEarnings, TopicTechnology}, tbl.TopicColumns())
}

func TestNilTablesHaveZeroLen(t *testing.T) {
	var ts *TimeSeries
	var nt *NewsTable
	assert.Equal(t, 0, ts.Len())
	assert.Equal(t, 0, nt.Len())
}
