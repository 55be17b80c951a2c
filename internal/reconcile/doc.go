// Package reconcile computes the edits that make a remote playlist match a local one.
//
// # Pipeline
//
// Data flows through four pure, synchronous stages:
//
//  1. [Normalize] canonicalizes a metadata field (trim, case fold, drop a "feat." clause).
//  2. [Matcher.FindBestMatch] scores candidates by the mean of artist and title similarity
//     and returns the best one at or above the threshold (0.85 by default).
//  3. [Matcher.Reconcile] builds a [models.Plan]: local tracks missing from the remote
//     playlist are looked up in the remote library and added; remote entries missing from
//     the local playlist are removed unless [Policy.NoRemove] is set.
//  4. [Decide] applies the dry-run and confirmation policy to a plan.
//
// Nothing in this package performs I/O. Confirmation is an injected [Confirmer] so callers
// can supply a console prompt, an auto-confirm flag or a test double.
//
// # Tie-breaking
//
// Candidates are scanned in order. The running best only advances on a strictly higher
// score, so the first candidate seen wins a tie. A perfect score of 1.0 stops the scan.
package reconcile
