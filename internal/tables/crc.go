package tables

// CRC-14 parameters for FT8/FT4 (spec §4.5), carried over unchanged from
// ft8_lib's constants.go by way of the teacher's own constants table.
const (
	CRCWidth      = 14
	CRCPolynomial = 0x2757 // top bit implied, not included
)
