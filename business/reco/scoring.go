package reco

import (
	"math"

	"marketSense/domain"
)

// personalScore computes the weighted blend of category, keyword, price and
// brand matches for one listing against a profile. All components are in
// [0, 1], so with weights summing to 1 the score is too.
func (c Config) personalScore(profile domain.InterestProfile, listing domain.Listing, listingKeywords []string) float64 {
	category := profile.CategoryShare(listing.Category)
	kw := weightedKeywordOverlap(profile.Keywords, listingKeywords)
	price := priceBandScore(profile.PriceBand(c.PriceTolerance), listing.Price)

	brand := 0.0
	if listing.Brand != "" && listing.Brand == profile.TopBrand() {
		brand = 1.0
	}

	return c.WCategory*category + c.WKeyword*kw + c.WPrice*price + c.WBrand*brand
}

// weightedKeywordOverlap is the share of the profile's keyword mass matched
// by the listing's keyword set. Frequent interests count more than a flat
// set Jaccard would allow.
func weightedKeywordOverlap(profileKeywords map[string]float64, listingKeywords []string) float64 {
	if len(profileKeywords) == 0 || len(listingKeywords) == 0 {
		return 0
	}

	total := 0.0
	for _, w := range profileKeywords {
		total += w
	}
	if total == 0 {
		return 0
	}

	matched := 0.0
	seen := make(map[string]struct{}, len(listingKeywords))
	for _, kw := range listingKeywords {
		if _, dup := seen[kw]; dup {
			continue
		}
		seen[kw] = struct{}{}
		matched += profileKeywords[kw]
	}

	return matched / total
}

// priceBandScore is 1 inside the preferred band and decays linearly to 0
// with distance from the nearest band edge, at the scale of the band center.
func priceBandScore(band *domain.PriceRange, price float64) float64 {
	if band == nil || price <= 0 {
		return 0
	}
	if band.Contains(price) {
		return 1
	}

	var dist float64
	if price < band.Low {
		dist = band.Low - price
	} else {
		dist = price - band.High
	}

	center := band.Center()
	if center <= 0 {
		return 0
	}
	score := 1 - dist/center
	if score < 0 {
		return 0
	}
	return score
}

// similarScore compares a candidate listing against the reference listing.
func (c Config) similarScore(ref, candidate domain.Listing, refKeywords, candidateKeywords []string) float64 {
	kw := setJaccard(refKeywords, candidateKeywords)

	category := 0.0
	if ref.Category != "" && ref.Category == candidate.Category {
		category = 1.0
	}
	brand := 0.0
	if ref.Brand != "" && ref.Brand == candidate.Brand {
		brand = 1.0
	}

	price := priceDistanceScore(ref.Price, candidate.Price, c.PriceSpread)

	return c.SimilarWKeyword*kw + c.SimilarWCategory*category +
		c.SimilarWBrand*brand + c.SimilarWPrice*price
}

// setJaccard is intersection over union of two keyword sets.
func setJaccard(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	setA := make(map[string]struct{}, len(a))
	for _, kw := range a {
		setA[kw] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, kw := range b {
		setB[kw] = struct{}{}
	}

	intersection := 0
	for kw := range setA {
		if _, ok := setB[kw]; ok {
			intersection++
		}
	}

	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// priceDistanceScore decays exponentially with relative distance from the
// reference price; identical prices score 1.
func priceDistanceScore(refPrice, price, spread float64) float64 {
	if refPrice <= 0 || price <= 0 || spread <= 0 {
		return 0
	}
	rel := math.Abs(price-refPrice) / refPrice
	return math.Exp(-rel / spread)
}
