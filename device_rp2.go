//go:build rp2040

package main

// deviceID selects the embedded configuration profile.
const deviceID = "vacutherm-pico"
