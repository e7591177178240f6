// Package sonde is a real-time audio measurement engine.
//
// A producer goroutine, typically an audio callback, hands planar blocks to ProcessBlock. The
// engine measures levels, K-weighted loudness, stereo correlation, three-band energy and
// windowed spectra without allocating, locking or blocking, and publishes the results for a
// consumer goroutine that polls on its own cadence.
package sonde

/*
Usage:

engine, err := sonde.New(sonde.DefaultOptions())
if err != nil {
    return err
}

if err := engine.Prepare(48000, 512); err != nil {
    return err
}

// Producer (audio callback)
_ = engine.ProcessBlock(left, right)

// Consumer (UI timer)
snapshot := engine.Metrics().Snapshot()
fmt.Printf("%.1f LUFS, correlation %.2f\n", snapshot.Momentary, snapshot.Correlation)

frame := engine.NewSpectralFrame()
for engine.ReadSpectrum(frame) {
    draw(frame.Left, frame.Right)
}

// Mono input
_ = engine.ProcessBlock(samples, nil)

engine.Release()

*/
