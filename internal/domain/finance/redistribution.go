package finance

import "time"

// Redistribution splits sale proceeds by surface quotité. The amounts sum
// to the proceeds within floating-point tolerance. A zero total surface
// yields NaN quotités; callers guard.
func Redistribution(saleProceeds float64, shares []SurfaceShare, totalSurface float64) []RedistributionEntry {
	entries := make([]RedistributionEntry, 0, len(shares))
	for _, share := range shares {
		quotite := share.Surface / totalSurface
		entries = append(entries, RedistributionEntry{
			Name:    share.Name,
			Quotite: quotite,
			Amount:  saleProceeds * quotite,
		})
	}
	return entries
}

// RedistributionByTime splits sale proceeds in proportion to each
// recipient's time in the project at the sale date. Entries dated after
// the sale weigh zero; when every weight is zero the amounts are NaN.
func RedistributionByTime(saleProceeds float64, shares []TimeShare, saleDate time.Time) []RedistributionEntry {
	weights := make([]float64, len(shares))
	var totalWeight float64
	for i, share := range shares {
		weights[i] = YearsHeld(share.EntryDate, saleDate)
		totalWeight += weights[i]
	}

	entries := make([]RedistributionEntry, 0, len(shares))
	for i, share := range shares {
		quotite := weights[i] / totalWeight
		entries = append(entries, RedistributionEntry{
			Name:    share.Name,
			Quotite: quotite,
			Amount:  saleProceeds * quotite,
		})
	}
	return entries
}
