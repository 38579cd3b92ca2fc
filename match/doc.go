// Package match implements the cross-modal matching engine.
//
// Each incoming report is embedded across up to three modalities (faces,
// whole image, description text), appended to the durable modality indexes,
// and searched against previously indexed opposite-kind reports. Per-modality
// similarities are aggregated with a max per candidate, combined with a
// geographic proximity score, and fused into a single weighted score. A
// candidate whose fused score strictly exceeds the subject's threshold
// becomes a pending match record, persisted once per (lost, found) pair.
package match
