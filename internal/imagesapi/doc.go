// Package imagesapi provides an HTTP client for the remote image service.
//
// # Overview
//
// The service is an external collaborator exposing two endpoints relative to
// a configured base URL:
//
//   - GET <images_path>?page=<n>&pageSize=<m>: JSON array of images
//   - POST <images_path>/<id>/likes: records a like; body ignored
//
// The client also issues HEAD requests against attachment URLs so the gallery
// can show a loading placeholder until an asset is known to be reachable.
//
// # Request Handling
//
// All requests:
//   - Use context for cancellation
//   - Set User-Agent and a fresh X-Request-ID
//   - Are attempted once; there is no retry or backoff
//
// Any network failure, status >= 400 or undecodable body is returned as a
// *TransportError wrapping the cause.
//
// # Usage Example
//
//	client, err := imagesapi.NewClient("http://localhost:3000", imagesapi.Options{})
//	if err != nil {
//		return err
//	}
//	images, err := client.FetchImagesPage(ctx, 1, 10)
//	if err != nil {
//		return err
//	}
//	err = client.SubmitLike(ctx, images[0].ID)
package imagesapi
