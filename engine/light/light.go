package light

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// LightType identifies the kind of light source.
type LightType int

const (
	// LightTypeDirectional represents a light with no position, only direction.
	// Used for large distant sources like the sun or moon. Shadowed with an
	// orthographic shadow camera.
	LightTypeDirectional LightType = iota

	// LightTypePoint represents a light that emits in all directions from a position.
	// Shadowed with a single wide perspective shadow camera aimed at the view focus.
	LightTypePoint

	// LightTypeSpot represents a light that emits in a cone from a position along a direction.
	// Shadowed with a perspective shadow camera matched to the outer cone.
	LightTypeSpot
)

// String returns the lowercase name of the light type.
func (t LightType) String() string {
	switch t {
	case LightTypeDirectional:
		return "directional"
	case LightTypePoint:
		return "point"
	case LightTypeSpot:
		return "spot"
	default:
		return "unknown"
	}
}

// ParseLightType parses a light type name as produced by LightType.String.
// Matching is case-insensitive.
//
// Parameters:
//   - s: the light type name
//
// Returns:
//   - LightType: the parsed type
//   - error: an error if s names no light type
func ParseLightType(s string) (LightType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "directional":
		return LightTypeDirectional, nil
	case "point":
		return LightTypePoint, nil
	case "spot", "spotlight":
		return LightTypeSpot, nil
	default:
		return 0, fmt.Errorf("unknown light type %q", s)
	}
}

// NearClipper is implemented by cameras that expose a near clipping distance.
// Lights fall back to it when they have no shadow clip distance of their own.
type NearClipper interface {
	Near() float32
}

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	lightType  LightType
	position   mgl32.Vec3
	direction  mgl32.Vec3
	lightRange float32
	innerCone  float32 // stored as cos(half-angle in radians)
	outerCone  float32 // stored as cos(half-angle in radians)
	outerAngle float32 // full apex angle of the outer cone, radians

	shadowFarDistance float32 // 0 = unset
	shadowNearClip    float32 // <= 0 = derive from the view camera
	shadowFarClip     float32 // < 0 = derive from the light type

	enabled      bool
	castsShadows bool
}

// Light defines the interface for a light source in the scene.
//
// Lights are scene-level entities that the shadow pass iterates when placing
// shadow cameras. All light types (directional, point, spot) share this
// interface; type-specific properties (e.g. cone angles for spot lights) are
// ignored when not applicable.
type Light interface {
	// Type returns the kind of light source.
	//
	// Returns:
	//   - LightType: the light type (directional, point, or spot)
	Type() LightType

	// Position returns the world-space position of the light.
	// Meaningless for directional lights.
	//
	// Returns:
	//   - mgl32.Vec3: position as (x, y, z)
	Position() mgl32.Vec3

	// Direction returns the normalized direction of the light.
	// For directional lights this is the light direction. For spot lights this
	// is the cone axis. Meaningless for point lights.
	//
	// Returns:
	//   - mgl32.Vec3: normalized direction as (x, y, z)
	Direction() mgl32.Vec3

	// Range returns the maximum attenuation distance for point and spot lights.
	// Also used as the shadow far clip for those lights when no explicit clip is set.
	//
	// Returns:
	//   - float32: the range value
	Range() float32

	// InnerCone returns the cosine of the inner cone half-angle for spot lights.
	//
	// Returns:
	//   - float32: cos(inner half-angle)
	InnerCone() float32

	// OuterCone returns the cosine of the outer cone half-angle for spot lights.
	//
	// Returns:
	//   - float32: cos(outer half-angle)
	OuterCone() float32

	// OuterConeAngle returns the full apex angle of the outer cone in radians,
	// i.e. twice the outer half-angle given to SetSpotCone.
	//
	// Returns:
	//   - float32: outer cone angle in radians
	OuterConeAngle() float32

	// ShadowFarDistance returns the distance from the viewer up to which this
	// light casts shadows. 0 means unset and lets the shadow camera setup pick one.
	//
	// Returns:
	//   - float32: shadow far distance in world units
	ShadowFarDistance() float32

	// DeriveShadowNearClip returns the near clip distance of this light's shadow
	// camera: the light's own value when positive, otherwise the view camera's
	// near distance.
	//
	// Parameters:
	//   - cam: the view camera being shadowed
	//
	// Returns:
	//   - float32: shadow camera near clip distance
	DeriveShadowNearClip(cam NearClipper) float32

	// DeriveShadowFarClip returns the far clip distance of this light's shadow
	// camera: the light's own value when non-negative, otherwise 0 (infinite) for
	// directional lights and Range for point and spot lights.
	//
	// Parameters:
	//   - cam: the view camera being shadowed
	//
	// Returns:
	//   - float32: shadow camera far clip distance, 0 meaning infinite
	DeriveShadowFarClip(cam NearClipper) float32

	// Enabled returns whether this light is active for rendering.
	//
	// Returns:
	//   - bool: true if the light is enabled
	Enabled() bool

	// CastsShadows returns whether this light is eligible for shadow map generation.
	//
	// Returns:
	//   - bool: true if the light casts shadows
	CastsShadows() bool

	// SetPosition sets the world-space position of the light.
	//
	// Parameters:
	//   - x, y, z: position components
	SetPosition(x, y, z float32)

	// SetDirection sets the direction of the light and normalizes it.
	//
	// Parameters:
	//   - x, y, z: direction components (will be normalized)
	SetDirection(x, y, z float32)

	// SetRange sets the maximum attenuation distance.
	//
	// Parameters:
	//   - lightRange: the range value
	SetRange(lightRange float32)

	// SetSpotCone sets the inner and outer cone half-angles for spot lights.
	//
	// Parameters:
	//   - innerDeg: inner cone half-angle in degrees
	//   - outerDeg: outer cone half-angle in degrees
	SetSpotCone(innerDeg, outerDeg float32)

	// SetShadowFarDistance sets the shadow far distance. 0 clears it.
	//
	// Parameters:
	//   - distance: shadow far distance in world units
	SetShadowFarDistance(distance float32)

	// SetShadowClipDistances sets explicit near and far clip distances for the
	// light's shadow camera. Pass a non-positive near or a negative far to fall
	// back to the derived defaults.
	//
	// Parameters:
	//   - near: shadow camera near clip
	//   - far: shadow camera far clip (0 = infinite)
	SetShadowClipDistances(near, far float32)

	// SetEnabled enables or disables the light for rendering.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)

	// SetCastsShadows sets whether the light is eligible for shadow mapping.
	//
	// Parameters:
	//   - castsShadows: true to enable shadow casting
	SetCastsShadows(castsShadows bool)
}

var _ Light = &lightImpl{}

// NewLight creates a new Light of the specified type with sensible defaults and
// any provided options applied.
//
// Parameters:
//   - lightType: the kind of light to create (directional, point, or spot)
//   - opts: variadic list of LightBuilderOption functions to configure the light
//
// Returns:
//   - Light: a new Light instance
func NewLight(lightType LightType, opts ...LightBuilderOption) Light {
	l := &lightImpl{
		lightType:      lightType,
		position:       mgl32.Vec3{0, 0, 0},
		direction:      mgl32.Vec3{0, -1, 0},
		lightRange:     10.0,
		shadowNearClip: -1,
		shadowFarClip:  -1,
		enabled:        true,
		castsShadows:   false,
	}
	l.setSpotCone(25, 35)
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *lightImpl) Type() LightType {
	return l.lightType
}

func (l *lightImpl) Position() mgl32.Vec3 {
	return l.position
}

func (l *lightImpl) Direction() mgl32.Vec3 {
	return l.direction
}

func (l *lightImpl) Range() float32 {
	return l.lightRange
}

func (l *lightImpl) InnerCone() float32 {
	return l.innerCone
}

func (l *lightImpl) OuterCone() float32 {
	return l.outerCone
}

func (l *lightImpl) OuterConeAngle() float32 {
	return l.outerAngle
}

func (l *lightImpl) ShadowFarDistance() float32 {
	return l.shadowFarDistance
}

func (l *lightImpl) DeriveShadowNearClip(cam NearClipper) float32 {
	if l.shadowNearClip > 0 {
		return l.shadowNearClip
	}
	return cam.Near()
}

func (l *lightImpl) DeriveShadowFarClip(cam NearClipper) float32 {
	if l.shadowFarClip >= 0 {
		return l.shadowFarClip
	}
	if l.lightType == LightTypeDirectional {
		return 0
	}
	return l.lightRange
}

func (l *lightImpl) Enabled() bool {
	return l.enabled
}

func (l *lightImpl) CastsShadows() bool {
	return l.castsShadows
}

func (l *lightImpl) SetPosition(x, y, z float32) {
	l.position = mgl32.Vec3{x, y, z}
}

func (l *lightImpl) SetDirection(x, y, z float32) {
	l.direction = normalize3(x, y, z)
}

func (l *lightImpl) SetRange(lightRange float32) {
	l.lightRange = lightRange
}

func (l *lightImpl) SetSpotCone(innerDeg, outerDeg float32) {
	l.setSpotCone(innerDeg, outerDeg)
}

func (l *lightImpl) SetShadowFarDistance(distance float32) {
	l.shadowFarDistance = distance
}

func (l *lightImpl) SetShadowClipDistances(near, far float32) {
	l.shadowNearClip = near
	l.shadowFarClip = far
}

func (l *lightImpl) SetEnabled(enabled bool) {
	l.enabled = enabled
}

func (l *lightImpl) SetCastsShadows(castsShadows bool) {
	l.castsShadows = castsShadows
}

func (l *lightImpl) setSpotCone(innerDeg, outerDeg float32) {
	l.innerCone = cosDeg(innerDeg)
	l.outerCone = cosDeg(outerDeg)
	l.outerAngle = mgl32.DegToRad(2 * outerDeg)
}

// normalize3 normalizes a 3-component vector. Returns a zero vector if the input
// has zero length.
func normalize3(x, y, z float32) mgl32.Vec3 {
	v := mgl32.Vec3{x, y, z}
	if v.Len() == 0 {
		return mgl32.Vec3{0, 0, 0}
	}
	return v.Normalize()
}

// cosDeg converts an angle in degrees to the cosine of that angle in radians.
func cosDeg(deg float32) float32 {
	return float32(math.Cos(float64(deg) * math.Pi / 180.0))
}
