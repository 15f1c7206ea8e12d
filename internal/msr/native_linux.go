package msr

const nativeBackend = BackendDevMSR
