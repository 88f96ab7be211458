// Package transcode converts upstream audio into the formats clients ask
// for by piping ffmpeg output straight to the response.
//
// Completed transcodes land in a content-addressed on-disk cache keyed by
// track, format, and bitrate, so repeated plays of the same rendition skip
// ffmpeg entirely. The cache prunes oldest entries first once it exceeds
// its size budget.
package transcode
