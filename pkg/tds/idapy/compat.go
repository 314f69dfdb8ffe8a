package idapy

// ps10Initializers names the unit initialization routines of PS10.EXE, which
// carry no debug symbols of their own. IDA ignores addresses outside the
// database segments, so the block is harmless for other executables.
const ps10Initializers = `make_func(2, 0x2070, '$CspRndrInit', '')
make_func(3, 0x3756, '$CsDemoInit', '')
make_func(4, 0x32cb, '$Cs3dm2Init', '')
make_func(5, 0x84ea, '$CsActInit', '')
make_func(6, 0x6ff8, '$CspUtlInit', '')
make_func(7, 0x2cdd, '$CsMenuInit', '')
make_func(8, 0x6b43, '$CspBioInit', '')
make_func(9, 0x2685, '$SoundIPInit', '')

`
