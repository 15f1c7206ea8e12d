package msr

const nativeBackend = BackendWinRing0
