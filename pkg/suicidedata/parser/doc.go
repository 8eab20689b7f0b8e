// Package parser locates layout anchors in irregular statistics spreadsheets
// and reshapes them into canonical long-format records.
package parser
