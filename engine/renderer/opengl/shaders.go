package opengl

// DefaultVertexShader transforms positions by the camera uniforms and passes
// texture coordinates through.
const DefaultVertexShader = `#version 410 core
layout(location = 0) in vec3 a_position;
layout(location = 1) in vec2 a_uv;

uniform mat4 u_model;
uniform mat4 u_view;
uniform mat4 u_projection;

out vec2 v_uv;

void main() {
	v_uv = a_uv;
	gl_Position = u_projection * u_view * u_model * vec4(a_position, 1.0);
}
`

// DefaultFragmentShader samples u_textureId when u_useTexture is set and
// falls back to u_colour otherwise.
const DefaultFragmentShader = `#version 410 core
in vec2 v_uv;

uniform sampler2D u_textureId;
uniform int u_useTexture;
uniform vec4 u_colour;

out vec4 fragColour;

void main() {
	if (u_useTexture != 0) {
		fragColour = texture(u_textureId, v_uv) * u_colour;
	} else {
		fragColour = u_colour;
	}
}
`
