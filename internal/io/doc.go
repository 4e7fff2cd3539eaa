// Package ioutils provides file system, text decoding and image utilities.
//
// This package contains functions for:
//   - Reading track lists whose encoding is not known in advance
//   - File writing and directory creation
//   - Image resizing and format conversion for embedded cover art
//
// # Text Files
//
// ReadTextFile returns UTF-8 regardless of whether the file was saved as
// UTF-8 with or without a byte order mark, UTF-16, or GBK:
//
//	text, err := ioutils.ReadTextFile("tracks.csv")
//
// # File Operations
//
//	// Write data to file
//	err := ioutils.WriteFile(ctx, "/path/to/playlist.m3u", []byte("content"))
//
//	// Ensure directory exists
//	err := ioutils.EnsureDir("/path/to/new/directory")
//
// # Image Processing
//
// The ImageService prepares cover art before it is embedded in tags:
//
//	svc := ioutils.NewImageService()
//	resized, _ := svc.ResizeImage(ctx, imageData, 500, 500)
//	jpeg, _ := svc.ConvertToJPEG(ctx, pngData)
package ioutils
