// Package jpegcaption reads and writes the caption of a JPEG image.
//
// The caption is the EXIF ImageDescription tag (0x010E) in IFD0 of the
// image's Exif APP1 segment. Images are given either as bytes in a [Blob] or
// as a [URL] that is downloaded first.
//
// # Quick Start
//
// Reading a caption:
//
//	caption, err := jpegcaption.GetCaption(ctx, jpegcaption.URL("https://example.com/photo.jpg"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(caption)
//
// Writing a caption:
//
//	blob, err := jpegcaption.SetCaption(ctx, "Harbour at dusk",
//		&jpegcaption.Blob{Data: data, MediaType: "image/jpeg"})
//	if err != nil {
//		log.Fatal(err)
//	}
//	os.WriteFile("captioned.jpg", blob.Data, 0644)
//
// [ReadCaption] and [WriteCaption] are the same operations on plain byte
// slices without any I/O.
//
// # How Writing Works
//
// Only the Exif segment changes. The marker walk stops at the first scan,
// so compressed image data is copied verbatim. Inside the segment the caption
// is stored by the cheapest edit that keeps every other value where it is:
//
//   - Captions of up to 3 characters fit inline in the directory entry
//   - Shorter or equal captions overwrite the old value and zero-pad it
//   - A value that ends the segment grows in place
//   - Anything else is appended and the entry repointed
//   - A missing tag gets a new entry; IFD0 moves to the end of the segment
//
// Images without an Exif segment get a new one, after the JFIF header when
// there is one.
//
// # Captions
//
// EXIF stores ImageDescription as NUL-terminated ASCII. Captions are written
// byte for byte, so UTF-8 survives a round trip through this package although
// other readers may show it differently. Captions containing a NUL byte are
// rejected with [InvalidCaptionError].
//
// # Error Handling
//
// Errors are typed and matched with errors.As:
//
//	var malformed *jpegcaption.MalformedImageError
//	if errors.As(err, &malformed) {
//		log.Printf("not a JPEG: %s", malformed.Reason)
//	}
//
// A missing caption is not an error; it reads as "".
//
// # Concurrency
//
// Every function is safe for concurrent use. [GetCaptions] reads many
// sources in parallel and reports all failures in one error.
package jpegcaption
