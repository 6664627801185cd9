// Package astrosource manages descriptive metadata for astronomical sources:
// physical properties (position, distance, luminosity), a hierarchy of
// subsources, and references to data products that are expensive to keep in
// memory.
//
// A source is described by an INI-style configuration file. The required
// [INFO] section carries the root properties; any other section is either a
// subsource (type = subsource, nesting via dotted section names) or a data
// descriptor (any other declared type). Data descriptors are lazy: the
// external product is read on the first Load call and the payload is cached
// on the descriptor afterwards.
//
// # Quick start
//
//	src, err := source.Load("g333.cfg")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	distance, _ := src.Distance()       // 1 kpc
//	pos, _ := src.Position()            // derived from ra/dec/frame
//
//	mm1, _ := src.Subsource("MM1")
//	radius, _ := mm1.Quantity("radius") // 0.1 arcsec
//
//	d, _ := src.Data("continuum")
//	payload, err := d.Load()            // reads the file, caches the result
//
// Loaders for the fits_file and spectral_cube kinds live under
// pkg/data/loaders and register themselves when imported. New kinds are added
// with data.Register.
package astrosource
