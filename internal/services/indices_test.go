package services

import (
	"math"
	"testing"

	"github.com/consorciovial/ssoma-server/internal/models"
)

// TestZeroHoursUndefined: severity over a month with zero worked hours
// must report the undefined indicator, never NaN or a panic.
func TestZeroHoursUndefined(t *testing.T) {
	var c models.MonthlyCounters
	c.LostDays[0] = 5
	// WorkedHours[0] stays 0

	idx := ComputeIndices(&c)

	if idx.Severity[0].Defined {
		t.Error("severity with zero hours reported as defined")
	}
	if idx.Frequency[0].Defined {
		t.Error("frequency with zero hours reported as defined")
	}
	if idx.Accidentability[0].Defined {
		t.Error("accidentability with undefined inputs reported as defined")
	}
	if math.IsNaN(idx.Severity[0].Value) || math.IsInf(idx.Severity[0].Value, 0) {
		t.Errorf("severity value = %v, want finite zero", idx.Severity[0].Value)
	}
}

func TestMonthlyFormulas(t *testing.T) {
	var c models.MonthlyCounters
	c.WorkedHours[3] = 200_000
	c.Temporary[3] = 2
	c.PartialPermanent[3] = 1
	c.Fatal[3] = 1
	c.LostDays[3] = 40

	idx := ComputeIndices(&c)

	if got := idx.IncapacitatingAccidents[3]; got != 3 {
		t.Errorf("incapacitating = %d, want 3", got)
	}
	if got := idx.AccidentsWithLostDays[3]; got != 4 {
		t.Errorf("withLostDays = %d, want 4", got)
	}

	wantFreq := 4.0 * 1_000_000 / 200_000 // 20
	if got := idx.Frequency[3]; !got.Defined || got.Value != wantFreq {
		t.Errorf("frequency = %+v, want %v", got, wantFreq)
	}
	wantSev := 40.0 * 1_000_000 / 200_000 // 200
	if got := idx.Severity[3]; !got.Defined || got.Value != wantSev {
		t.Errorf("severity = %+v, want %v", got, wantSev)
	}
	wantAcc := wantFreq * wantSev / 1000 // 4
	if got := idx.Accidentability[3]; !got.Defined || got.Value != wantAcc {
		t.Errorf("accidentability = %+v, want %v", got, wantAcc)
	}
}

// TestAnnualFromSummedCounters: ATT=2, APP=1, ATP=0, AM=1 spread across
// the year must give totalAI=3 and totalACDP=4, computed from the
// summed counters rather than averaged monthly indices.
func TestAnnualFromSummedCounters(t *testing.T) {
	var c models.MonthlyCounters
	c.Temporary[0] = 1
	c.Temporary[6] = 1 // ATT = 2
	c.PartialPermanent[2] = 1
	c.Fatal[9] = 1
	// Uneven hours: with equal hours every month the annual figure and
	// the monthly mean coincide and the distinction is untestable.
	c.WorkedHours[0] = 5_000
	for m := 1; m < 12; m++ {
		c.WorkedHours[m] = 15_000
	}

	idx := ComputeIndices(&c)

	if got := idx.Annual.IncapacitatingAccidents; got != 3 {
		t.Errorf("annual AI = %d, want 3", got)
	}
	if got := idx.Annual.AccidentsWithLostDays; got != 4 {
		t.Errorf("annual ACDP = %d, want 4", got)
	}

	// Annual frequency comes from the totals: 4 * 1e6 / 170_000.
	wantAnnualFreq := 4.0 * 1_000_000 / 170_000
	if got := idx.Annual.Frequency; !got.Defined || got.Value != wantAnnualFreq {
		t.Errorf("annual frequency = %+v, want %v", got, wantAnnualFreq)
	}

	// The mean of the monthly indices would differ (months with an
	// accident score 100, empty months 0); guard against regressing to
	// an average.
	var mean float64
	for m := 0; m < 12; m++ {
		mean += idx.Frequency[m].Value
	}
	mean /= 12
	if idx.Annual.Frequency.Value == mean {
		t.Errorf("annual frequency equals monthly mean (%v); must come from summed counters", mean)
	}
}

func TestDiseaseIncidence(t *testing.T) {
	var c models.MonthlyCounters
	c.OccupationalDiseases[5] = 2
	c.Workers[5] = 400

	idx := ComputeIndices(&c)

	want := 2.0 * 1000 / 400
	if got := idx.DiseaseIncidence[5]; !got.Defined || got.Value != want {
		t.Errorf("disease incidence = %+v, want %v", got, want)
	}
	if idx.DiseaseIncidence[0].Defined {
		t.Error("disease incidence with zero workers reported as defined")
	}
}
