package problem

import (
	"math"
	"testing"
)

func linspace(start, stop float64, n int) []float64 {
	out := make([]float64, n)
	step := (stop - start) / float64(n-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

func testProblem(t *testing.T) (*SingleOutputProblem, []float64) {
	t.Helper()

	model, err := NewLogisticModel(2)
	if err != nil {
		t.Fatalf("NewLogisticModel failed: %v", err)
	}
	params := []float64{0.015, 500}
	times := linspace(0, 1000, 100)
	values, err := model.Simulate(params, times)
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}
	p, err := NewSingleOutputProblem(model, times, values)
	if err != nil {
		t.Fatalf("NewSingleOutputProblem failed: %v", err)
	}
	return p, params
}

func TestLogisticClosedForm(t *testing.T) {
	model, err := NewLogisticModel(2)
	if err != nil {
		t.Fatalf("NewLogisticModel failed: %v", err)
	}

	r, k, p0 := 0.015, 500.0, 2.0
	times := []float64{0, 100, 1000}
	out, err := model.Simulate([]float64{r, k}, times)
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}

	for i, tv := range times {
		e := math.Exp(r * tv)
		want := k * p0 * e / (k + p0*(e-1))
		if math.Abs(out[i]-want) > 1e-9 {
			t.Errorf("Simulate at t=%v: got %v, want %v", tv, out[i], want)
		}
	}
	if out[0] != p0 {
		t.Errorf("population at t=0 should equal p0, got %v", out[0])
	}
}

func TestLogisticValidation(t *testing.T) {
	if _, err := NewLogisticModel(0); err == nil {
		t.Fatal("expected error for non-positive p0")
	}

	model, _ := NewLogisticModel(2)
	if _, err := model.Simulate([]float64{0.1}, []float64{0}); err == nil {
		t.Fatal("expected error for wrong parameter count")
	}
	if _, err := model.Simulate([]float64{0.1, -5}, []float64{0}); err == nil {
		t.Fatal("expected error for non-positive carrying capacity")
	}
}

func TestNewSingleOutputProblemValidation(t *testing.T) {
	model, _ := NewLogisticModel(2)

	if _, err := NewSingleOutputProblem(nil, []float64{0}, []float64{0}); err == nil {
		t.Fatal("expected error for nil model")
	}
	if _, err := NewSingleOutputProblem(model, nil, nil); err == nil {
		t.Fatal("expected error for empty times")
	}
	if _, err := NewSingleOutputProblem(model, []float64{0, 1}, []float64{0}); err == nil {
		t.Fatal("expected error for mismatched lengths")
	}
}

func TestSumOfSquaresZeroAtDataParameters(t *testing.T) {
	p, params := testProblem(t)
	sse := SumOfSquaresError(p)

	got, err := sse(params)
	if err != nil {
		t.Fatalf("measure failed: %v", err)
	}
	if got != 0 {
		t.Fatalf("sum of squares at the generating parameters = %v, want 0", got)
	}

	off, err := sse([]float64{0.016, 500})
	if err != nil {
		t.Fatalf("measure failed: %v", err)
	}
	if off <= 0 {
		t.Fatalf("sum of squares away from the optimum = %v, want > 0", off)
	}
}

func TestRMSERelatesToSSE(t *testing.T) {
	p, _ := testProblem(t)
	sse := SumOfSquaresError(p)
	rmse := RootMeanSquaredError(p)

	x := []float64{0.014, 480}
	a, err := sse(x)
	if err != nil {
		t.Fatalf("sse failed: %v", err)
	}
	b, err := rmse(x)
	if err != nil {
		t.Fatalf("rmse failed: %v", err)
	}

	n := float64(len(p.Times()))
	if math.Abs(b-math.Sqrt(a/n)) > 1e-9 {
		t.Fatalf("rmse = %v, want sqrt(sse/n) = %v", b, math.Sqrt(a/n))
	}
}

func TestMeasurePropagatesModelErrors(t *testing.T) {
	p, _ := testProblem(t)
	sse := SumOfSquaresError(p)

	if _, err := sse([]float64{0.015}); err == nil {
		t.Fatal("expected dimension error to surface")
	}
	if _, err := sse([]float64{0.015, -1}); err == nil {
		t.Fatal("expected model domain error to surface")
	}
}
