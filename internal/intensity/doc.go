// Package intensity reconstructs dense hourly per-fuel generation
// tables for a balancing authority and reduces them to derived series:
// grid carbon intensity and renewable share.
//
// The fuel-type enumeration and the emission-factor table are fixed
// constants of the system. Extraction degrades gracefully: fuels with
// no source data become all-zero columns and out-of-range requests
// produce informational notes, while timestamps that cannot be
// normalized to UTC are hard errors.
package intensity
