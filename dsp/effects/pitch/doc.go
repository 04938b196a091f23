// Package pitch provides a granular pitch shifter built on the pitch/time
// delay reader.
package pitch
