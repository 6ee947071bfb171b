// Package marketcap reconciles market-capitalization figures whose unit
// scale is not self-describing.
//
// Providers report market cap as a bare number that may be raw dollars or
// pre-scaled to thousands, millions, billions or trillions. The resolver
// infers the scale by comparing the reported number against an independent
// estimate (shares outstanding × price) and, when no estimate exists, falls
// back to fixed magnitude buckets.
//
// Conventions:
//   - Optional inputs are *float64; nil means the value is unavailable
//   - Zero, negative, NaN and infinite reported values count as unavailable
//   - A reference of zero or less cannot disambiguate scale and is ignored
//
// Everything in this package is pure and safe for concurrent use.
package marketcap
