// Package kernel contains the shared value objects of the dispatch domain:
// UUID identifiers and geographic locations. Both are immutable and must be
// created through their constructor functions; zero values fail validation.
package kernel
