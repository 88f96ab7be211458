// Package textutil provides text normalization helpers shared by search and
// the transcode cache.
//
// Fold strips diacritics and lowercases so user queries match accented
// catalog names; SanitizeFilename builds safe cache file fragments from
// track metadata.
package textutil
