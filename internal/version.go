package internal

// Version is the current dictlookup release.
const Version = "0.3.0"
