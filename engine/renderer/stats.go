package renderer

import "fmt"

/**
 * @brief What happened during one call to Renderer.Render.
 */
type FrameStats struct {
	Frame    uint64
	Commands int
	Skipped  int
	Errors   int
	/** @brief Device calls issued by the cache during the frame. */
	Cache CacheStats
}

func (s FrameStats) String() string {
	return fmt.Sprintf("frame %d: %d commands, %d draws, %d skipped, %d errors, %d program binds, %d vertex data binds, %d texture binds, %d uniform uploads",
		s.Frame, s.Commands, s.Cache.DrawCalls, s.Skipped, s.Errors,
		s.Cache.ProgramBinds, s.Cache.VertexDataBinds, s.Cache.TextureBinds, s.Cache.UniformUploads)
}

// Sub returns the counters accumulated since before.
func (s CacheStats) Sub(before CacheStats) CacheStats {
	return CacheStats{
		ProgramBinds:     s.ProgramBinds - before.ProgramBinds,
		VertexDataBinds:  s.VertexDataBinds - before.VertexDataBinds,
		TextureBinds:     s.TextureBinds - before.TextureBinds,
		FramebufferBinds: s.FramebufferBinds - before.FramebufferBinds,
		UniformUploads:   s.UniformUploads - before.UniformUploads,
		DrawCalls:        s.DrawCalls - before.DrawCalls,
		SkippedDraws:     s.SkippedDraws - before.SkippedDraws,
	}
}
