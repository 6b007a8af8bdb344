package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/rentroll/internal/calendar"
)

func TestAssumptionListCloneCopiesOverrides(t *testing.T) {
	orig := AssumptionList{
		ExistingAssumption{
			AssumptionBase:  AssumptionBase{ID: "e1", TargetID: "t1"},
			PriceAdjustment: &PriceAdjustment{NewUnitPrice: 3, Start: calendar.D("2024-06-01")},
			PaymentShift: &PaymentShift{
				Active: true,
				From:   calendar.YearMonth{Year: 2024, Month: time.March},
				To:     calendar.YearMonth{Year: 2024, Month: time.April},
				Amount: 5000,
			},
		},
		VacancyAssumption{AssumptionBase: AssumptionBase{ID: "v1", TargetID: "u3"}},
	}

	clone := orig.Clone()
	ex := clone[0].(ExistingAssumption)
	ex.PriceAdjustment.NewUnitPrice = 9
	ex.PaymentShift.Amount = 1

	kept := orig[0].(ExistingAssumption)
	assert.Equal(t, 3.0, kept.PriceAdjustment.NewUnitPrice)
	assert.Equal(t, 5000.0, kept.PaymentShift.Amount)
	assert.Equal(t, orig[1], clone[1])

	assert.NotNil(t, AssumptionList(nil).Clone())
}

func TestAssumptionListKeepsUnknownRecords(t *testing.T) {
	in := `[{"id":"x1","targetType":"Parking","targetId":"t1","spaces":4},` +
		`{"id":"v1","targetType":"Vacancy","targetId":"u3","projectedUnitPrice":2.8}]`

	var l AssumptionList
	require.NoError(t, json.Unmarshal([]byte(in), &l))
	require.Len(t, l, 2)

	unknown := l.Unknown()
	require.Len(t, unknown, 1)
	assert.Equal(t, "x1", unknown[0].ID)
	assert.Equal(t, KindUnknown, unknown[0].Kind())

	_, ok := l.Find("t1", TargetExisting)
	assert.False(t, ok)
	v, ok := l.Find("u3", TargetVacancy)
	require.True(t, ok)
	assert.Equal(t, 2.8, v.(VacancyAssumption).UnitPrice)

	out, err := json.Marshal(l)
	require.NoError(t, err)
	var recs []map[string]any
	require.NoError(t, json.Unmarshal(out, &recs))
	require.Len(t, recs, 2)
	assert.Equal(t, "Parking", recs[0]["targetType"])
	assert.Equal(t, 4.0, recs[0]["spaces"])
}

func TestAssumptionListUpsertLeavesUnknownAlone(t *testing.T) {
	var l AssumptionList
	require.NoError(t, json.Unmarshal([]byte(`[{"id":"x1","targetType":"Parking","targetId":"t1"}]`), &l))

	l = l.Upsert(DefaultAssumption(TargetExisting, "t1", "Acme", 2024))
	assert.Len(t, l, 2)
	assert.Len(t, l.Unknown(), 1)
}
