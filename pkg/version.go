package jotter

// Version is the jotter release version.
const Version = "0.3.0"
