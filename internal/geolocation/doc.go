/*
Package geolocation wraps a platform location API in an event-emitting
Geolocator.

Listeners subscribe for two events: Located, carrying coordinates and the
time they were acquired, and Error, carrying the cause. Locate does a
one-shot fetch; StartWatching tracks continuously until StopWatching.

Options layer per call over instance defaults: a field set on the call
wins, an unset one inherits. The setters (EnableHighAccuracy, SetTimeout,
SetMaximumAge, ...) each change a single default and restart an active
watch so it picks the change up.

HTTPLocator is a Locator that reads fixes from a JSON endpoint through
the xhr client:

	{"latitude": 48.85, "longitude": 2.35, "accuracy": 20, "timestamp": 1700000000000}

Example:

	locator := geolocation.NewHTTPLocator(client, "http://localhost:8000/api/location")
	geo := geolocation.New(locator, geolocation.PositionOptions{})

	unsubscribe := geo.Subscribe(func(ev geolocation.Event) {
		switch ev := ev.(type) {
		case geolocation.Located:
			fmt.Println(ev.Coords.Latitude, ev.Coords.Longitude)
		case geolocation.Error:
			fmt.Println(ev.Cause)
		}
	})
	defer unsubscribe()

	geo.EnableHighAccuracy()
	_ = geo.StartWatching()
*/
package geolocation
