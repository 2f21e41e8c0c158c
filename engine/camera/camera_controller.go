package camera

import "github.com/go-gl/mathgl/mgl32"

// CameraController owns the positional state (position, target) of a camera.
// Camera reads from the controller and computes its view direction and matrices.
// The controller orbits its target using spherical coordinates (radius, azimuth,
// elevation) relative to the target/pivot point.
type CameraController interface {
	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - mgl32.Vec3: world-space camera position
	Position() mgl32.Vec3

	// Target returns the look-at point.
	//
	// Returns:
	//   - mgl32.Vec3: world-space target position
	Target() mgl32.Vec3

	// Pose returns position and target read together, so an orbit from another
	// goroutine cannot land between the two.
	//
	// Returns:
	//   - mgl32.Vec3: world-space camera position
	//   - mgl32.Vec3: world-space target position
	Pose() (position, target mgl32.Vec3)

	// SetTarget sets the look-at/pivot point and recomputes position from spherical coordinates.
	//
	// Parameters:
	//   - x, y, z: world-space coordinates
	SetTarget(x, y, z float32)

	// SetPosition sets the camera's world-space position directly.
	// The spherical coordinates are left untouched until the next orbit or zoom.
	//
	// Parameters:
	//   - x, y, z: world-space coordinates
	SetPosition(x, y, z float32)

	// Orbit rotates the camera around the target by the given angle deltas.
	// Elevation is clamped to the controller's bounds.
	//
	// Parameters:
	//   - dAzimuth: change in horizontal angle, radians
	//   - dElevation: change in vertical angle, radians
	Orbit(dAzimuth, dElevation float32)

	// Zoom adjusts the camera's distance by modifying orbit radius.
	// Positive delta zooms in (closer to target).
	//
	// Parameters:
	//   - delta: zoom amount scaled by ZoomSpeed
	Zoom(delta float32)

	// Radius returns the current orbit radius (distance from target).
	//
	// Returns:
	//   - float32: current distance from target
	Radius() float32

	// SetRadius sets the orbit radius directly, clamped to min/max bounds.
	//
	// Parameters:
	//   - radius: new distance from target
	SetRadius(radius float32)

	// Azimuth returns the current horizontal angle around the Y axis.
	//
	// Returns:
	//   - float32: azimuth in radians
	Azimuth() float32

	// Elevation returns the current vertical angle from the horizontal plane.
	//
	// Returns:
	//   - float32: elevation in radians
	Elevation() float32
}
