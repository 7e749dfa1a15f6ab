package null

import (
	"github.com/spaghettifunk/anima-gl/engine/core"
	"github.com/spaghettifunk/anima-gl/engine/renderer/metadata"
)

func (b *Backend) CreateShader(shaderType metadata.ShaderType) uint32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.allocate("CreateShader")
	if id != 0 {
		b.shaders[id] = &shaderObject{shaderType: shaderType}
	}
	return id
}

func (b *Backend) CompileShader(shader uint32, source string) (bool, string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("CompileShader")
	s, ok := b.shaders[shader]
	if !ok {
		return false, "invalid shader handle"
	}
	s.source = source
	if b.compile != nil {
		return b.compile(s.shaderType, source)
	}
	return true, ""
}

func (b *Backend) DeleteShader(shader uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("DeleteShader")
	delete(b.shaders, shader)
}

func (b *Backend) CreateProgram() uint32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.allocate("CreateProgram")
	if id != 0 {
		b.programs[id] = &programObject{values: make(map[int32]metadata.UniformValue)}
	}
	return id
}

func (b *Backend) AttachShader(program, shader uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("AttachShader")
	if p, ok := b.programs[program]; ok {
		p.shaders = append(p.shaders, shader)
	}
}

func (b *Backend) BindAttributeLocation(program, location uint32, name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("BindAttributeLocation")
}

func (b *Backend) BindFragDataLocation(program, colorNumber uint32, name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("BindFragDataLocation")
}

func (b *Backend) LinkProgram(program uint32) (bool, string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("LinkProgram")
	p, ok := b.programs[program]
	if !ok {
		return false, "invalid program handle"
	}
	shaders := make([]*shaderObject, 0, len(p.shaders))
	sources := make([]string, 0, len(p.shaders))
	for _, id := range p.shaders {
		if s, ok := b.shaders[id]; ok {
			shaders = append(shaders, s)
			sources = append(sources, s.source)
		}
	}
	if b.link != nil {
		if ok, log := b.link(sources); !ok {
			return false, log
		}
	}
	reflectProgram(p, shaders)
	p.linked = true
	return true, ""
}

func (b *Backend) ActiveAttributes(program uint32) []metadata.ProgramVariable {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("ActiveAttributes")
	if p, ok := b.programs[program]; ok {
		return append([]metadata.ProgramVariable(nil), p.attributes...)
	}
	return nil
}

func (b *Backend) ActiveUniforms(program uint32) []metadata.ProgramVariable {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("ActiveUniforms")
	if p, ok := b.programs[program]; ok {
		return append([]metadata.ProgramVariable(nil), p.uniforms...)
	}
	return nil
}

func (b *Backend) FragmentOutputs(program uint32) []metadata.ProgramVariable {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("FragmentOutputs")
	if p, ok := b.programs[program]; ok {
		return append([]metadata.ProgramVariable(nil), p.outputs...)
	}
	return nil
}

func (b *Backend) UseProgram(program uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("UseProgram")
	b.currentProgram = program
}

func (b *Backend) SetUniform(program uint32, location int32, value metadata.UniformValue) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("SetUniform")
	if p, ok := b.programs[program]; ok {
		p.values[location] = value
	}
}

func (b *Backend) DeleteProgram(program uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("DeleteProgram")
	delete(b.programs, program)
	if b.currentProgram == program {
		b.currentProgram = 0
	}
}

func (b *Backend) CreateBuffer() uint32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.allocate("CreateBuffer")
	if id != 0 {
		b.buffers[id] = nil
	}
	return id
}

func (b *Backend) BindBuffer(target metadata.BufferTarget, buffer uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("BindBuffer")
	b.boundBuffers[target] = buffer
	// the element binding is vertex array state
	if target == metadata.BufferTargetIndex {
		if vao, ok := b.vertexArrays[b.currentVAO]; ok {
			vao.elementBuffer = buffer
		}
	}
}

func (b *Backend) BufferData(target metadata.BufferTarget, numBytes int, data []byte, hint metadata.BufferHint) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("BufferData")
	id := b.boundBuffers[target]
	core.Assert(id != 0, "null: BufferData without a bound %s", target)
	storage := make([]byte, numBytes)
	copy(storage, data)
	b.buffers[id] = storage
}

func (b *Backend) BufferSubData(target metadata.BufferTarget, offset int, data []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("BufferSubData")
	id := b.boundBuffers[target]
	storage := b.buffers[id]
	core.Assert(offset >= 0 && offset+len(data) <= len(storage), "null: BufferSubData out of range")
	copy(storage[offset:], data)
}

// MapBuffer hands out the storage itself, so writes land directly.
func (b *Backend) MapBuffer(target metadata.BufferTarget, numBytes int, access metadata.MapAccess) []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("MapBuffer")
	core.Assert(!b.mappedBuffers[target], "null: %s is already mapped", target)
	b.mappedBuffers[target] = true
	storage := b.buffers[b.boundBuffers[target]]
	if numBytes > len(storage) {
		numBytes = len(storage)
	}
	return storage[:numBytes]
}

func (b *Backend) UnmapBuffer(target metadata.BufferTarget) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("UnmapBuffer")
	ok := b.mappedBuffers[target]
	b.mappedBuffers[target] = false
	return ok
}

func (b *Backend) DeleteBuffer(buffer uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("DeleteBuffer")
	delete(b.buffers, buffer)
}

func (b *Backend) CreateVertexArray() uint32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.allocate("CreateVertexArray")
	if id != 0 {
		b.vertexArrays[id] = &vertexArrayObject{}
	}
	return id
}

func (b *Backend) BindVertexArray(vao uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("BindVertexArray")
	b.currentVAO = vao
}

func (b *Backend) EnableVertexAttribute(attribute metadata.VertexAttribute, stride int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("EnableVertexAttribute")
	vao, ok := b.vertexArrays[b.currentVAO]
	core.Assert(ok, "null: vertex attribute without a bound vertex array")
	vao.arrayBuffer = b.boundBuffers[metadata.BufferTargetVertex]
	vao.attributes = append(vao.attributes, attribute)
}

func (b *Backend) DeleteVertexArray(vao uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("DeleteVertexArray")
	delete(b.vertexArrays, vao)
	if b.currentVAO == vao {
		b.currentVAO = 0
	}
}

func (b *Backend) CreateTexture() uint32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.allocate("CreateTexture")
	if id != 0 {
		b.textures[id] = &textureObject{}
	}
	return id
}

func (b *Backend) ActiveTextureUnit(unit int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("ActiveTextureUnit")
	b.activeUnit = unit
}

func (b *Backend) BindTexture(kind metadata.TextureKind, texture uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("BindTexture")
	if texture == 0 {
		delete(b.unitBindings, b.activeUnit)
		return
	}
	b.unitBindings[b.activeUnit] = texture
	if t, ok := b.textures[texture]; ok {
		t.kind = kind
	}
}

func (b *Backend) boundTextureLocked() *textureObject {
	return b.textures[b.unitBindings[b.activeUnit]]
}

func (b *Backend) TexImage2D(width, height int, format metadata.ColorFormat, pixels []uint8) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("TexImage2D")
	t := b.boundTextureLocked()
	core.Assert(t != nil, "null: TexImage2D without a bound texture")
	t.width, t.height, t.format = width, height, format
	t.pixels = append([]uint8(nil), pixels...)
}

func (b *Backend) TextureParameters(param metadata.TextureParameter) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("TextureParameters")
	if t := b.boundTextureLocked(); t != nil {
		t.param = param
	}
}

func (b *Backend) GenerateMipmap(kind metadata.TextureKind) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("GenerateMipmap")
	if t := b.boundTextureLocked(); t != nil {
		t.mipmapped = true
	}
}

func (b *Backend) DeleteTexture(texture uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("DeleteTexture")
	delete(b.textures, texture)
	for unit, bound := range b.unitBindings {
		if bound == texture {
			delete(b.unitBindings, unit)
		}
	}
}

func (b *Backend) CreateFramebuffer() uint32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.allocate("CreateFramebuffer")
	if id != 0 {
		b.framebuffers[id] = 0
	}
	return id
}

func (b *Backend) BindFramebuffer(framebuffer uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("BindFramebuffer")
	b.currentFB = framebuffer
}

func (b *Backend) AttachColorTexture(texture uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("AttachColorTexture")
	b.attachedTexture[b.currentFB] = texture
}

func (b *Backend) AttachDepthStencil(width, height int) uint32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.allocate("AttachDepthStencil")
	if id != 0 {
		b.renderbuffer[id] = true
		b.framebuffers[b.currentFB] = id
	}
	return id
}

func (b *Backend) FramebufferComplete() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("FramebufferComplete")
	if b.failOn["FramebufferComplete"] > 0 {
		b.failOn["FramebufferComplete"]--
		return false
	}
	_, hasColor := b.attachedTexture[b.currentFB]
	return b.currentFB != 0 && hasColor
}

func (b *Backend) DeleteFramebuffer(framebuffer, depthStencil uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("DeleteFramebuffer")
	delete(b.framebuffers, framebuffer)
	delete(b.renderbuffer, depthStencil)
	delete(b.attachedTexture, framebuffer)
	if b.currentFB == framebuffer {
		b.currentFB = 0
	}
}

func (b *Backend) Viewport(x, y, width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("Viewport")
	b.viewport = [4]int{x, y, width, height}
}

func (b *Backend) ClearColor(r, g, bl, a float32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("ClearColor")
	b.clearColor = [4]float32{r, g, bl, a}
}

func (b *Backend) Clear(flags metadata.ClearFlags) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("Clear")
	b.clears = append(b.clears, flags)
}

func (b *Backend) SetDepthTest(enabled bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("SetDepthTest")
	b.depthTest = enabled
}

func (b *Backend) SetDepthFunc(fn metadata.DepthFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("SetDepthFunc")
	b.depthFunc = fn
}

func (b *Backend) DrawArrays(mode metadata.DrawMode, first, count int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("DrawArrays")
	b.draws = append(b.draws, b.drawRecordLocked(mode, first, count, false))
}

func (b *Backend) DrawElements(mode metadata.DrawMode, count int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("DrawElements")
	core.Assert(b.elementBufferLocked() != 0, "null: DrawElements without an element buffer")
	b.draws = append(b.draws, b.drawRecordLocked(mode, 0, count, true))
}

// elementBufferLocked is the element buffer of the bound vertex array.
func (b *Backend) elementBufferLocked() uint32 {
	if vao, ok := b.vertexArrays[b.currentVAO]; ok {
		return vao.elementBuffer
	}
	return 0
}

func (b *Backend) drawRecordLocked(mode metadata.DrawMode, first, count int, indexed bool) DrawRecord {
	textures := make(map[int]uint32, len(b.unitBindings))
	for unit, t := range b.unitBindings {
		textures[unit] = t
	}
	return DrawRecord{
		Mode:        mode,
		First:       first,
		Count:       count,
		Indexed:     indexed,
		Program:     b.currentProgram,
		VertexArray: b.currentVAO,
		Framebuffer: b.currentFB,
		Textures:    textures,
	}
}
