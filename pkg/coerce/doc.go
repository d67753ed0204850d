// Package coerce converts raw cell values into typed values by kind name:
// str, int, float, bool, datetime, date and list.
//
// Null-like input (nil or NaN) always coerces to nil without error. A value
// that cannot be converted fails with an ErrCoercion error whose message is
// "<value> to <kind>".
package coerce
