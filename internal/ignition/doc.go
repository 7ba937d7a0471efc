// Package ignition computes the Probability of Ignition (PIG) index for
// forest fire risk from weather and terrain inputs.
//
// # Method
//
// The computation chains three lookups over the reference tables in
// internal/tables, following the fine dead fuel moisture method used in
// wildfire behavior field guides:
//
//  1. Base fuel moisture: the day table (08:00–20:00, both ends
//     inclusive) or night table, indexed by temperature row and relative
//     humidity column.
//  2. Correction: an additive terrain/season adjustment from one of six
//     season × shade-band tables, indexed by an hour-window column and an
//     exposure + slope row. Corrections are optional by design: any
//     unmatched condition degrades to a zero correction with a note
//     rather than aborting the computation.
//  3. Probability: the final PIG table, indexed by a shade + temperature
//     row and an integer fuel-moisture column. Moisture below the table
//     floor clamps up to the first column; moisture above the table
//     maximum takes the rightmost column (probability decreases
//     monotonically as moisture rises, so past the table edge the risk
//     is at its lowest tabulated value).
//
// The probability maps to one of five fixed risk categories (low through
// extreme), each with display metadata for the presentation layer.
//
// # Conventions
//
// Season mapping is Southern Hemisphere: summer is Nov/Dec/Jan, winter
// is May/Jun/Jul, everything else is the combined autumn–spring band.
// Shade above 50% selects the high-shade tables; exactly 50% is low
// shade. Exposure codes follow the source spreadsheets' Spanish compass
// letters: N, S, E, O (Oeste = west).
//
// # Failure Policy
//
// Base-moisture misses are terminal (ErrTemperatureOutOfRange,
// ErrHumidityOutOfRange): without a base value there is nothing to
// correct. Correction and probability misses degrade to defaults and
// attach an explanatory note to the assessment. A missing reference
// table is a configuration error and always aborts.
package ignition
