// Package imgdecode decodes scan payloads line by line.
//
// A scan device returns the acquired image as a JPEG, PNG or TIFF
// payload.  A Decoder takes the whole payload, reports the image
// parameters a driver needs to size its buffers, and then serves the
// image one line at a time: grayscale images as 1 byte per pixel,
// everything else as 8 bit RGB, 3 bytes per pixel.
//
// Decoders are not safe for concurrent use; each scan job should own
// its decoder.  ForMIME picks the decoder for a document format by
// its MIME type.
package imgdecode
