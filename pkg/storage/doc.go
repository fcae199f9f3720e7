// Package storage manages the output directory of exported ratings.
//
// Each user's export lives at <output-dir>/<username>.csv. Writes go to a
// temporary file that is renamed into place, so a crashed or failed write
// never leaves a partial export that a later run would mistake for a
// finished one.
//
//	manager, err := storage.NewManager("ratings")
//	if !manager.Exists("alice") {
//	    err = manager.Save("alice", data)
//	}
package storage
