// Package playlist loads local playlist files into [models.LocalPlaylist] values.
//
// Supported formats are XSPF (.xspf) and M3U (.m3u, .m3u8). The playlist name is the file's
// base name without its extension. Tracks that cannot be resolved to a title and an artist
// are rejected and reported as malformed warnings rather than failing the whole playlist.
//
// XSPF tracks are read from their title, creator and album elements. When those are missing
// and the location points at a readable audio file, its tags are used instead.
//
// M3U entries are file paths, resolved relative to the playlist. Tags are read through a
// [tags.Reader]; the preceding #EXTINF line ("Artist - Title") is the fallback.
package playlist
