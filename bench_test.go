package pixz

import (
	"context"
	"testing"
)

func BenchmarkProducer_Lookup(b *testing.B) {
	src := gradient("gradient", 1024, 1024)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		src.Lookup(ctx, i%1024, (i/1024)%1024)
	}
}

func BenchmarkMap_Lookup(b *testing.B) {
	doubled := NewMap("double", gradient("gradient", 1024, 1024), func(_ context.Context, p Gray[int]) Gray[int] {
		return Gray[int]{Value: p.Value * 2}
	})
	defer doubled.Close()
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		doubled.Lookup(ctx, i%1024, (i/1024)%1024)
	}
}

func BenchmarkTransformed_Lookup(b *testing.B) {
	resampled := NewTransformed("zoom", gradient("gradient", 1024, 1024),
		Translation(10, 10).Compose(Scaling(0.5, 0.5)))
	defer resampled.Close()
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		resampled.Lookup(ctx, i%512, (i/512)%512)
	}
}

func BenchmarkCache_Hit(b *testing.B) {
	cached := NewCache("memo", gradient("gradient", 1024, 1024), 0)
	defer cached.Close()
	ctx := context.Background()
	cached.Lookup(ctx, 5, 5)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cached.Lookup(ctx, 5, 5)
	}
}

func BenchmarkReal_Arithmetic(b *testing.B) {
	x, _ := NewReal(1.5)
	y, _ := NewReal(2.25)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x.Add(y).Mul(x).Sub(y)
	}
}

func BenchmarkAffine_TransformPoint(b *testing.B) {
	transform := Translation(10, 10).Compose(Rotation(0.5))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		transform.TransformPoint(float64(i%512), float64(i%512))
	}
}
