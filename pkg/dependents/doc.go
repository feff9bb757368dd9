// Package dependents builds ranked reports of the packages that depend on a
// given npm package.
//
// # Overview
//
// A report starts from an [Identifier] ("left-pad" or "left-pad@1.3.0"). The
// [Builder] resolves it against a [Registry], asks a [Graph] for every
// package that declares a dependency on it, joins download counts, and sorts
// the result by downloads. With a recursion depth and width set, the top
// dependents of each level are expanded into their own dependent lists,
// producing a fan-out tree.
//
// # Scoring
//
// Each [Node] carries its download count and its traffic: the downloads
// multiplied by the unpacked size of the package it depends on. Traffic is a
// rough estimate of how many bytes of the target package a dependent pulls
// through the registry.
//
// # Accumulation
//
// [AccumulateAll] rolls every subtree up into its top-level node and discards
// the expanded children, so a report can rank dependents by their total reach
// instead of their own downloads.
//
// # Failure policy
//
// A root package that cannot be resolved fails the build. Packages that
// cannot be resolved deeper in the tree simply get no children. A dependent
// query that fails anywhere aborts the build; download counts that cannot be
// fetched are treated as zero.
package dependents
