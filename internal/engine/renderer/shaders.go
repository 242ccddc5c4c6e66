package renderer

const propVertexShader = `
#version 410 core

layout (location = 0) in vec3 aPosition;
layout (location = 1) in vec3 aNormal;
layout (location = 2) in vec2 aTexCoord;

uniform mat4 uMVP;
uniform mat4 uModel;
uniform vec2 uUVOffset;
uniform vec2 uUVScale;

out vec3 vNormal;
out vec3 vWorldPos;
out vec2 vTexCoord;

void main() {
    vec4 world = uModel * vec4(aPosition, 1.0);
    vWorldPos = world.xyz;
    vNormal = mat3(transpose(inverse(uModel))) * aNormal;
    vTexCoord = aTexCoord * uUVScale + uUVOffset;
    gl_Position = uMVP * vec4(aPosition, 1.0);
}
`

const propFragmentShader = `
#version 410 core

in vec3 vNormal;
in vec3 vWorldPos;
in vec2 vTexCoord;

uniform vec4 uBaseColor;
uniform vec4 uTint;
uniform vec4 uEmissive;
uniform bool uUnlit;
uniform bool uHasTexture;
uniform sampler2D uTexture;
uniform vec3 uLightDir;
uniform vec3 uCameraPos;

out vec4 FragColor;

void main() {
    vec4 tex = uHasTexture ? texture(uTexture, vTexCoord) : vec4(1.0);
    vec4 base = uBaseColor * uTint * tex;

    vec3 color;
    if (uUnlit) {
        color = base.rgb * 0.25;
    } else {
        vec3 n = normalize(vNormal);
        vec3 l = normalize(-uLightDir);
        vec3 v = normalize(uCameraPos - vWorldPos);
        float diffuse = max(dot(n, l), 0.0);
        float specular = pow(max(dot(n, normalize(l + v)), 0.0), 32.0);
        color = base.rgb * (0.25 + 0.75 * diffuse) + vec3(0.2) * specular;
    }
    color += uEmissive.rgb * tex.rgb;

    float alpha = base.a;
    if (uHasTexture && uUnlit) {
        alpha *= tex.a;
    }
    FragColor = vec4(color, alpha);
}
`
