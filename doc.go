/*
Package kaze implements the KAZE local feature engine: detection of scale-
and rotation-invariant keypoints inside a nonlinear diffusion scale space,
and construction of SURF, M-SURF and G-SURF descriptors for those keypoints.

A minimal usage example:

	cfg := kaze.DefaultConfig(img.Width, img.Height)
	cfg.Descriptor = kaze.MSURF

	engine, err := kaze.New(cfg)
	if err != nil {
		log.Fatalf("could not build engine: %v", err)
	}

	kpts, desc, err := engine.DetectAndCompute(img)
	if err != nil {
		log.Fatalf("could not process image: %v", err)
	}

The engine owns the nonlinear scale space for the lifetime of a run; Keypoint
and DescriptorMatrix values returned to the caller are independent of it.
*/
package kaze
