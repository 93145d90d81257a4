// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

//go:build tinygo && !rp2040

package main

import "machine"

const dataPin = machine.D2
