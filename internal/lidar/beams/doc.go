// Package beams reduces the vertical beam count of a spinning-LiDAR scan.
//
// Responsibilities: vertical-angle geometry, the three reduction methods
// (simple z-sort decimation, advanced angle-bin decimation, proper
// beam-boundary detection with alternate ring retention), beam counting,
// and the method dispatcher with its comparison mode.
// Key types: Point, Params, Histogram, Detection, Result, Comparison.
//
// Everything here operates on complete, in-memory point sets. File formats,
// plotting and batch orchestration live in pointio, monitor and batch.
package beams
