// Package imaging prepares images for keypoint extraction and renders the
// results.
//
// The package sits between decoded image files and the surf detector:
//
//   - ImageCache decodes files once and keeps them in memory.
//   - CropRegion and NamedRegion restrict work to a region of interest.
//   - Smooth optionally suppresses sensor noise before detection.
//   - Reduce shrinks an image by a ProcMode so large frames extract faster.
//   - ToFrame packs an image.Image into the byte layout surf.Handle reads;
//     LumaFromRaw does the same for raw camera buffers, and Frame.Gray
//     turns a mono frame back into an image for the rest of the pipeline.
//   - DrawKeypoints renders detected keypoints onto the source image.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with (0,0) at the top-left corner, X
// increasing rightward and Y increasing downward. For regions, (x1,y1) is
// inclusive and (x2,y2) exclusive.
//
// A keypoint found on a cropped and reduced image maps back to the source by
// scaling with ProcMode.Factor and then adding Region.Origin.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. The remaining functions are
// stateless and never modify their input images.
package imaging
