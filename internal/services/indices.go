package services

import "github.com/consorciovial/ssoma-server/internal/models"

// Accident-rate index formulas. Pure and stateless: indices are derived
// from the raw counters on every read and never stored.
//
// Per month m:
//
//	incapacitating[m]  = temporary[m] + partialPermanent[m] + totalPermanent[m]
//	withLostDays[m]    = incapacitating[m] + fatal[m]
//	frequency[m]       = withLostDays[m] * 1e6 / workedHours[m]
//	severity[m]        = lostDays[m] * 1e6 / workedHours[m]
//	accidentability[m] = frequency[m] * severity[m] / 1000
//	diseaseRate[m]     = diseases[m] * 1000 / workers[m]
//
// A zero denominator makes the index undefined (Defined=false), never a
// division crash. Annual figures sum the counters first and reapply the
// formulas — the annual index is NOT the mean of the monthly indices.

const (
	frequencyFactor = 1_000_000.0
	severityFactor  = 1_000_000.0
	incidenceFactor = 1_000.0
)

// ComputeIndices derives the full monthly + annual index set from one
// year of raw counters.
func ComputeIndices(c *models.MonthlyCounters) models.MonthlyIndices {
	var out models.MonthlyIndices

	for m := 0; m < 12; m++ {
		ai := c.Temporary[m] + c.PartialPermanent[m] + c.TotalPermanent[m]
		acdp := ai + c.Fatal[m]
		out.IncapacitatingAccidents[m] = ai
		out.AccidentsWithLostDays[m] = acdp

		out.Frequency[m] = ratio(float64(acdp)*frequencyFactor, c.WorkedHours[m])
		out.Severity[m] = ratio(float64(c.LostDays[m])*severityFactor, c.WorkedHours[m])
		out.Accidentability[m] = accidentability(out.Frequency[m], out.Severity[m])
		out.DiseaseIncidence[m] = ratio(float64(c.OccupationalDiseases[m])*incidenceFactor, float64(c.Workers[m]))
	}

	out.Annual = computeAnnual(c)
	return out
}

// computeAnnual sums every counter across the twelve months and applies
// the same formulas to the totals.
func computeAnnual(c *models.MonthlyCounters) models.AnnualIndices {
	var (
		ai, fatal, lostDays, diseases, workers int
		hours                                  float64
	)
	for m := 0; m < 12; m++ {
		ai += c.Temporary[m] + c.PartialPermanent[m] + c.TotalPermanent[m]
		fatal += c.Fatal[m]
		lostDays += c.LostDays[m]
		diseases += c.OccupationalDiseases[m]
		workers += c.Workers[m]
		hours += c.WorkedHours[m]
	}
	acdp := ai + fatal

	a := models.AnnualIndices{
		IncapacitatingAccidents: ai,
		AccidentsWithLostDays:   acdp,
		WorkedHours:             hours,
		LostDays:                lostDays,
	}
	a.Frequency = ratio(float64(acdp)*frequencyFactor, hours)
	a.Severity = ratio(float64(lostDays)*severityFactor, hours)
	a.Accidentability = accidentability(a.Frequency, a.Severity)
	a.DiseaseIncidence = ratio(float64(diseases)*incidenceFactor, float64(workers))
	return a
}

// ratio divides, flagging the result undefined on a zero denominator.
func ratio(numerator, denominator float64) models.IndexValue {
	if denominator == 0 {
		return models.IndexValue{}
	}
	return models.IndexValue{Value: numerator / denominator, Defined: true}
}

// accidentability combines frequency and severity; undefined if either
// input is.
func accidentability(f, s models.IndexValue) models.IndexValue {
	if !f.Defined || !s.Defined {
		return models.IndexValue{}
	}
	return models.IndexValue{Value: f.Value * s.Value / 1000, Defined: true}
}
