package testbed

// SunVertexShader passes clip-space position and quad coordinates to the
// glow shader.
const SunVertexShader = `#version 410 core
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

// SunFragmentShader draws a pulsing corona around a bright core. The pulse
// follows wall time so it keeps moving while the simulation is paused.
const SunFragmentShader = `#version 410 core
in vec2 v_uv;

uniform float iTime;
uniform vec3 iResolution;
uniform float u_day;
uniform sampler2D iChannel0;
uniform int u_useTexture;

out vec4 fragColour;

void main() {
	vec2 p = (v_uv - 0.5) * 2.0;
	p.x *= iResolution.x / max(iResolution.y, 1.0);
	float r = length(p);

	float core = smoothstep(0.35, 0.30, r);
	float corona = exp(-4.0 * max(r - 0.3, 0.0)) * (0.85 + 0.15 * sin(iTime * 2.0 + r * 12.0));
	vec3 colour = mix(vec3(1.0, 0.45, 0.05), vec3(1.0, 0.95, 0.7), core);
	if (u_useTexture != 0) {
		colour *= texture(iChannel0, v_uv * 0.5 + vec2(u_day * 0.01, 0.0)).rgb;
	}
	float alpha = clamp(core + corona, 0.0, 1.0);
	fragColour = vec4(colour * (core + corona), alpha);
}
`
