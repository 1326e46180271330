package model

// Version is the application version reported by --version and the web API.
const Version = "v0.3.1"
