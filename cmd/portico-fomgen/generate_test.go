package main

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openlvc/portico-sub003/pkg/fom"
)

const testFOM = `
name: VehicleFOM
spaces:
  - name: geo-space
    dimensions: [x, y]
objects:
  - name: Vehicle
    attributes:
      - position
      - name: fuel-level
        order: timestamp
    classes:
      - name: ground_car
        attributes: [wheels]
interactions:
  - name: Collision
    order: timestamp
    parameters: [other, impulse]
`

func buildModel(t *testing.T, src string) *fom.Model {
	t.Helper()
	m, err := fom.Parse([]byte(src))
	require.NoError(t, err)
	return m
}

func TestGoName(t *testing.T) {
	tests := map[string]string{
		"ObjectRoot.Vehicle":            "Vehicle",
		"ObjectRoot.Vehicle.ground_car": "VehicleGroundCar",
		"InteractionRoot.Collision":     "Collision",
		"fuel-level":                    "FuelLevel",
		"x":                             "X",
		"3d":                            "X3d",
	}
	for in, want := range tests {
		assert.Equal(t, want, goName(in), in)
	}
}

func TestGenerate(t *testing.T) {
	code, err := Generate(buildModel(t, testFOM), "vehicle.yaml", "vehiclefom", false)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(code, "// Code generated by portico-fomgen from vehicle.yaml. DO NOT EDIT."))
	for _, want := range []string{
		`const FOMName = "VehicleFOM"`,
		`VehicleClass = "ObjectRoot.Vehicle"`,
		`VehicleGroundCarClass = "ObjectRoot.Vehicle.ground_car"`,
		`VehiclePosition = "position"`,
		`VehicleFuelLevel = "fuel-level"`,
		`VehicleGroundCarWheels = "wheels"`,
		`CollisionInteraction = "InteractionRoot.Collision"`,
		`CollisionImpulse = "impulse"`,
		`GeoSpaceSpace = "geo-space"`,
		`GeoSpaceY = "y"`,
	} {
		assert.Contains(t, code, want)
	}
	assert.NotContains(t, code, "Manager")

	// Inherited attributes are not repeated on the subclass.
	assert.NotContains(t, code, "VehicleGroundCarPosition")

	_, err = parser.ParseFile(token.NewFileSet(), "gen.go", code, parser.AllErrors)
	assert.NoError(t, err, code)
}

func TestGenerateWithMOM(t *testing.T) {
	code, err := Generate(buildModel(t, testFOM), "vehicle.yaml", "vehiclefom", true)
	require.NoError(t, err)
	assert.Contains(t, code, `ManagerFederateClass = "ObjectRoot.Manager.Federate"`)
	assert.Contains(t, code, `ManagerFederateFederateHandle = "FederateHandle"`)
}

func TestGenerateErrors(t *testing.T) {
	_, err := Generate(buildModel(t, testFOM), "vehicle.yaml", "not-a-package", false)
	assert.Error(t, err)

	clash := `
name: Clash
objects:
  - name: Car
    attributes: [max-speed, max_speed]
`
	_, err = Generate(buildModel(t, clash), "clash.yaml", "clash", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CarMaxSpeed")
}

func TestRunWritesFormattedFile(t *testing.T) {
	dir := t.TempDir()
	fomPath := filepath.Join(dir, "vehicle.yaml")
	require.NoError(t, os.WriteFile(fomPath, []byte(testFOM), 0o644))

	out := filepath.Join(dir, "vehiclefom", "names_gen.go")
	require.NoError(t, run(options{FOM: fomPath, Package: "vehiclefom", Output: out}))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	f, err := parser.ParseFile(token.NewFileSet(), out, data, 0)
	require.NoError(t, err)
	assert.Equal(t, "vehiclefom", f.Name.Name)

	err = run(options{FOM: filepath.Join(dir, "missing.yaml"), Package: "x", Output: out})
	assert.Error(t, err)
}
